package handler

import (
	"collabgo/backend/internal/auth"
	"collabgo/backend/internal/realtime"
	"collabgo/backend/internal/storage"
)

// Handler wires the HTTP surface to the hub, auth and storage.
type Handler struct {
	Hub   *realtime.Hub
	Auth  *auth.Service
	Store storage.Storage
}

func NewHandler(hub *realtime.Hub, authSvc *auth.Service, store storage.Storage) *Handler {
	return &Handler{Hub: hub, Auth: authSvc, Store: store}
}
