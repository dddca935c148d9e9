package main

import (
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	breadcrumbscmd "github.com/goliatone/go-breadcrumb/internal/commands/breadcrumbs"
)

// subscribe routes the command messages to the module's handlers. The
// returned func removes the subscriptions.
func subscribe(set *breadcrumbscmd.HandlerSet) func() {
	invalidate := dispatcher.SubscribeCommand[breadcrumbscmd.InvalidateCacheCommand](set.InvalidateCache, runner.WithMaxRetries(1))
	imports := dispatcher.SubscribeCommand[breadcrumbscmd.ImportContentCommand](set.ImportContent)
	seed := dispatcher.SubscribeCommand[breadcrumbscmd.SeedSiteCommand](set.SeedSite)
	return func() {
		invalidate.Unsubscribe()
		imports.Unsubscribe()
		seed.Unsubscribe()
	}
}
