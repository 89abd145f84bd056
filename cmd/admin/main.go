package main

import (
	"fmt"
	"log"
	"os"

	"collabgo/backend/internal/auth"
	"collabgo/backend/internal/models"
	"collabgo/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Small operator CLI for bootstrapping accounts and projects without going
// through the API.
func main() {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // no redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <create-user|create-project|add-member> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create-user":
		if len(os.Args) != 6 {
			fmt.Println("Usage: admin create-user <name> <email> <password> <client|freelancer>")
			os.Exit(1)
		}
		user, err := createUser(storageSvc, os.Args[2], os.Args[3], os.Args[4], os.Args[5])
		if err != nil {
			log.Fatalf("Error creating user: %v", err)
		}
		fmt.Printf("User created: %s\n", user.ID)
	case "create-project":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin create-project <name> <workspace_id>")
			os.Exit(1)
		}
		project := &models.Project{Name: os.Args[2], WorkspaceID: os.Args[3]}
		if err := storageSvc.SaveProject(project); err != nil {
			log.Fatalf("Error creating project: %v", err)
		}
		fmt.Printf("Project created: %s\n", project.ID)
	case "add-member":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin add-member <project_id> <user_id>")
			os.Exit(1)
		}
		if err := addMember(storageSvc, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error adding member: %v", err)
		}
		fmt.Printf("User %s added to project %s\n", os.Args[3], os.Args[2])
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func createUser(s storage.Storage, name, email, password, role string) (*models.User, error) {
	if role != models.RoleClient && role != models.RoleFreelancer {
		return nil, fmt.Errorf("role must be %q or %q", models.RoleClient, models.RoleFreelancer)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := s.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func addMember(s storage.Storage, projectID, userID string) error {
	project, err := s.FindProjectByID(projectID)
	if err != nil {
		return err
	}
	if _, err := s.FindUserByID(userID); err != nil {
		return err
	}
	if project.HasMember(userID) {
		return nil
	}
	project.Members = append(project.Members, userID)
	return s.SaveProject(project)
}
