package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"fleetops-server/internal/watch"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "Fleet server websocket endpoint")
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "fleetops-watch needs an interactive terminal")
		os.Exit(1)
	}

	client, err := watch.Dial(*url)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	p := tea.NewProgram(watch.NewModel(), tea.WithAltScreen())
	go client.Run(p)

	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
