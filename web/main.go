package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-pathtracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()

	webServer := server.NewServer(*port)

	log.Printf("Path Tracer Web Server")
	log.Printf("Render stream at ws://localhost:%d/ws/render?scene=default", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
