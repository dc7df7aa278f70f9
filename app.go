package handmorph

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sync/atomic"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

// App is a single-threaded frame loop. Every call to Step runs all systems of
// every stage in order; resources are shared by pointer between systems.
type App struct {
	id        string
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	logger    Logger

	stopping atomic.Bool
	err      error
}

// ErrStopped is returned by Step once the app has been stopped.
var ErrStopped = errors.New("app stopped")

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// ID identifies this session in logs.
func (app *App) ID() string { return app.id }

// Run steps the app until Stop is called or a system fails. The failing
// system's error is returned.
func (app *App) Run() error {
	app.Logger().Infof("session %s running", app.id)
	for {
		if err := app.Step(); err != nil {
			if errors.Is(err, ErrStopped) {
				app.Logger().Infof("session %s stopped", app.id)
				return nil
			}
			return err
		}
	}
}

// Step runs one frame.
func (app *App) Step() error {
	if app.err != nil {
		return app.err
	}
	if app.stopping.Load() {
		return ErrStopped
	}
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			if err := app.callSystem(system); err != nil {
				app.err = fmt.Errorf("%s: %s: %w", stage.Name, systemName(system), err)
				app.Logger().Errorf("%v", app.err)
				return app.err
			}
		}
	}
	return nil
}

// Stop asks Run to return after the current frame. Safe from any goroutine.
func (app *App) Stop() {
	app.stopping.Store(true)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type T installed in app.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfLogger   = reflect.TypeOf((*Logger)(nil)).Elem()
	typeOfError    = reflect.TypeOf((*error)(nil)).Elem()
)

// callSystem resolves every argument of system from the resources, *Commands
// or the Logger, then calls it. A system may return a single error.
func (app *App) callSystem(system systemFn) error {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)

		if argType == typeOfLogger {
			args[i] = reflect.ValueOf(app.Logger())
			continue
		}
		if argType.Kind() != reflect.Pointer {
			panic(unresolved(system, argType))
		}

		underlyingType := argType.Elem()
		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			panic(unresolved(system, argType))
		}
	}

	out := systemValue.Call(args)
	if len(out) == 1 && systemType.Out(0) == typeOfError && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

func systemName(system systemFn) string {
	return runtime.FuncForPC(reflect.ValueOf(system).Pointer()).Name()
}

func unresolved(system systemFn, argType reflect.Type) string {
	return fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		systemName(system),
		fmt.Sprint(reflect.TypeOf(system)),
		fmt.Sprint(argType),
	)
}
