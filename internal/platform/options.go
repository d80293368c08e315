package platform

import (
	"log/slog"

	"github.com/aretw0/notekeep/pkg/core"
)

// options holds the internal configuration of a workspace.
type options struct {
	store   core.Store
	logger  *slog.Logger
	adapter string
	ids     core.IDGenerator
	config  map[string]any
}

// Option defines a functional option for opening a workspace.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]any),
	}
}

func (o *options) apply(opts []Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAdapter selects the storage adapter by name: "fs" (default), "memory",
// "sqlite", "postgres" or "redis".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithStore injects a ready store. The adapter option is then ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets the logger shared by the store and the repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithIDGenerator replaces the UUID generator used for new notes and tags.
func WithIDGenerator(ids core.IDGenerator) Option {
	return func(o *options) {
		o.ids = ids
	}
}

// WithAutoInit lets the fs adapter create the directory and the Git repository.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning enables or disables Git commits in the fs adapter.
// When unset, versioning follows the presence of a .git directory.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["gitless"] = !enabled
	}
}

// WithForceTemp re-roots the fs workspace under the system temp directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist fails instead of creating a missing workspace directory.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithSystemDir overrides the hidden workspace directory (".notekeep").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithReadOnly makes every write return core.ErrReadOnly. The dev sandbox is
// bypassed since nothing can be modified.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox applied under `go run` and `go test`.
// By default (true) the fs workspace is moved to a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithWatcherErrorHandler receives errors raised inside the fs watch loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithTable sets the key/value table of the SQL adapters.
func WithTable(name string) Option {
	return func(o *options) {
		o.config["table"] = name
	}
}

// WithRedisPrefix sets the key prefix of the redis adapter.
func WithRedisPrefix(prefix string) Option {
	return func(o *options) {
		o.config["redis_prefix"] = prefix
	}
}

// WithRedisAuth sets the password and database of the redis adapter.
func WithRedisAuth(password string, db int) Option {
	return func(o *options) {
		o.config["redis_password"] = password
		o.config["redis_db"] = db
	}
}
