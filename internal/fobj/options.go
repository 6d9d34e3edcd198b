package fobj

// EnvOption configures a new Env.
type EnvOption interface{ apply(env *Env) }

// EnvOptions combines any number of options into one, applied in order.
func EnvOptions(opts ...EnvOption) EnvOption {
	var all envOptions
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case envOptions:
			all = append(all, impl...)
		default:
			all = append(all, opt)
		}
	}
	if len(all) == 1 {
		return all[0]
	}
	return all
}

// MaxCapacity bounds WithCapacity.
const MaxCapacity = 1 << 20

// DefaultArrayLimit bounds array growth unless WithArrayLimit says otherwise.
const DefaultArrayLimit = 1 << 20

var defaultEnvOptions = EnvOptions(
	WithCapacity(DefaultCapacity),
	WithArrayLimit(DefaultArrayLimit),
)

// WithCapacity sets the fixed number of pool slots.
func WithCapacity(n int) EnvOption { return capacityOption(n) }

// WithStrictGC forces a collection before every allocation, surfacing
// rooting bugs deterministically.
func WithStrictGC(strict bool) EnvOption { return strictOption(strict) }

// WithArrayLimit bounds the length any array may grow to.
func WithArrayLimit(n int) EnvOption { return arrayLimitOption(n) }

// WithLogf installs a printf-style trace logging function.
func WithLogf(logfn func(mess string, args ...interface{})) EnvOption { return logfnOption(logfn) }

type envOptions []EnvOption
type capacityOption int
type strictOption bool
type arrayLimitOption int
type logfnOption func(mess string, args ...interface{})

func (opts envOptions) apply(env *Env) {
	for _, opt := range opts {
		opt.apply(env)
	}
}

func (n capacityOption) apply(env *Env) { env.capacity = int(n) }

func (strict strictOption) apply(env *Env) { env.strict = bool(strict) }

func (n arrayLimitOption) apply(env *Env) { env.arrayLimit = int(n) }

func (logfn logfnOption) apply(env *Env) { env.logfn = logfn }
