package cli

import (
	"github.com/houshuang/alif/internal/config"
	"github.com/houshuang/alif/internal/fsrs"
	"github.com/houshuang/alif/internal/identity"
	"github.com/houshuang/alif/internal/importer"
	"github.com/houshuang/alif/internal/material"
	"github.com/houshuang/alif/internal/repository"
	"github.com/houshuang/alif/internal/session"
)

// App holds every collaborator a CLI command needs, mirroring the
// teacher's App struct of service interfaces (internal/cli/root.go) but
// over alif's scheduler components instead of project-planning services.
type App struct {
	Builder  *session.Builder
	Pipeline *material.Pipeline
	FSRS     *fsrs.Scheduler
	Resolver *identity.Resolver
	Ingester *importer.Ingester

	Knowledge repository.KnowledgeRepo
	Lemmas    repository.LemmaRepo
	Sentences repository.SentenceRepo
	Logs      repository.ReviewLogRepo

	Params config.SchedulerParams

	// IsInteractive reports whether stdin is a terminal (kairos's
	// cmd/kairos/main.go App.IsInteractive convention). No command
	// consults it: `review` always runs its bubbletea and huh forms, and
	// the other commands never do.
	IsInteractive func() bool
}
