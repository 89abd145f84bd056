package config

import "time"

const (
	// Realtime
	SendBufferSize     = 256
	HistoryReplayLimit = 50
	AuthFrameTimeout   = 10 * time.Second

	// Messages API
	DefaultMessagePageLimit = 50
	MaxMessagePageLimit     = 200
)
