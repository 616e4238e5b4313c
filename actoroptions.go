package maiko

// ActorOption customizes a single actor's registration. Unlike a
// registration-builder DSL, this is just the ordinary Go way to accept
// optional per-call configuration — actor construction itself stays a
// plain factory func, not a fluent builder.
type ActorOption func(*actorOptions)

type actorOptions struct {
	channelSize int
}

// WithActorChannelSize overrides Config.ChannelSize for one actor's
// mailbox.
func WithActorChannelSize(n int) ActorOption {
	return func(o *actorOptions) { o.channelSize = n }
}

func resolveActorOptions(opts []ActorOption) actorOptions {
	var o actorOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
