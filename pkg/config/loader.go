package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	// cache holds one parsed value per config type, keyed by reflect.Type.
	cache sync.Map
)

type entry struct {
	once  sync.Once
	value any
	err   error
}

// Load fills v from environment variables according to its `env` struct tags.
// A .env file in the working directory is read once per process if present.
// Each config type is parsed once; later calls for the same type get the cached copy,
// including a cached failure.
//
//	var cfg twofactor.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		// A missing .env file is fine.
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()
	raw, _ := cache.LoadOrStore(key, &entry{})
	e := raw.(*entry)

	e.once.Do(func() {
		parsed, err := env.ParseAs[T]()
		if err != nil {
			e.err = errors.Join(ErrParsingConfig, err)
			return
		}
		e.value = parsed
	})

	if e.err != nil {
		return e.err
	}
	*v = e.value.(T)
	return nil
}

// MustLoad works like Load but panics on failure.
// Meant for process startup where a missing setting must stop the service.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
