package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"cinechat/internal/config"
	"cinechat/internal/dispatch"
	"cinechat/internal/gateway"
	"cinechat/internal/transcript"
	"cinechat/internal/ui"
)

func main() {
	cfg := config.Load()

	tlog := transcript.New()
	client := gateway.NewClient(cfg.APIBase)

	// The program pointer is needed both by the sink notifications and the
	// rating sub-flow's re-entry, so the dispatcher is wired before the
	// program and sends through this variable.
	var p *tea.Program
	disp := dispatch.New(tlog, client, func(utterance string) {
		p.Send(ui.SubmitMsg{Utterance: utterance})
	})

	p = tea.NewProgram(ui.New(tlog, disp), tea.WithAltScreen())
	tlog.SetNotify(func() {
		p.Send(ui.RefreshMsg{})
	})

	if _, err := p.Run(); err != nil {
		log.Fatalf("failed to run chat client: %v", err)
	}
}
