package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortlinks/internal/history"
	"github.com/serroba/shortlinks/internal/shortener"
	"go.uber.org/zap"
)

// ServicePackage provides the create, resolve and delete services.
func ServicePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.KeyGenerator, error) {
		opts := do.MustInvoke[*Options](i)

		next, err := shortener.NewCodeSource()
		if err != nil {
			return nil, err
		}

		return shortener.NewKeyGenerator(do.MustInvoke[shortener.LinkStore](i), next, opts.KeyAttempts), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Shortener, error) {
		return shortener.NewShortener(
			do.MustInvoke[*shortener.KeyGenerator](i),
			do.MustInvoke[shortener.LinkStore](i),
			do.MustInvoke[*history.Log](i),
			do.MustInvoke[shortener.HistoryRepairer](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Resolver, error) {
		return shortener.NewResolver(do.MustInvoke[shortener.LinkStore](i)), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.DeletionCoordinator, error) {
		return shortener.NewDeletionCoordinator(
			do.MustInvoke[shortener.LinkStore](i),
			do.MustInvoke[*history.Log](i),
			do.MustInvoke[shortener.HistoryRepairer](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}
