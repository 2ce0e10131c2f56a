package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"slipflow/database"
	"slipflow/jobs"
	_ "slipflow/providers/ocr"
	"slipflow/realtime"
	"slipflow/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using process environment")
	}

	database.Connect()

	host := os.Getenv("HOST")
	port := os.Getenv("PORT")

	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3000"
	}

	go realtime.Default.Run()

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // slip images
	})
	routes.Setup(app)

	jobs.StartDirectoryScheduler()
	jobs.StartRetentionScheduler()

	addr := fmt.Sprintf("%s:%s", host, port)
	log.Println("Server running at", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Panicf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Gracefully shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited cleanly")
}
