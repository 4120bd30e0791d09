package container

import "github.com/samber/do"

// NewServer registers every package the HTTP server needs.
func NewServer(opts *Options) *do.Injector {
	injector := do.New()
	do.ProvideValue(injector, opts)

	LoggerPackage(injector)
	RedisPackage(injector)
	PostgresPackage(injector)
	StorePackage(injector)
	MessagingPackage(injector)
	ServicePackage(injector)
	RateLimitPackage(injector)
	HTTPPackage(injector)

	return injector
}

// NewConsumer registers the packages the repair consumer process needs.
func NewConsumer(opts *Options) *do.Injector {
	injector := do.New()
	do.ProvideValue(injector, opts)

	LoggerPackage(injector)
	RedisPackage(injector)
	PostgresPackage(injector)
	StorePackage(injector)
	MessagingPackage(injector)

	return injector
}
