package main

import (
	"log"

	"aimpact-messaging/config"
	"aimpact-messaging/pkg/database"
)

// Applies the schema and seeds the initial user directory, then exits.
func main() {
	cfg := config.LoadConfig()

	database.Connect(cfg)
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	if err := database.Seed(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("Migrations applied and seed data ensured")
}
