package handmorph

import (
	"fmt"
	"reflect"
	"slices"
)

type Stage struct {
	Name string
}

// One frame runs the stages in this order: the clock ticks in PreUpdate, the
// engine advances in Update, renderers draw in Render and the frame limiter
// sleeps in Finale. GestureModule adds Input right after PreUpdate.
var (
	PreUpdate = Stage{Name: "PreUpdate"}
	Update    = Stage{Name: "Update"}
	Render    = Stage{Name: "Render"}
	Finale    = Stage{Name: "Finale"}

	Input = Stage{Name: "Input"}
)

func defaultStages() []Stage {
	return []Stage{PreUpdate, Update, Render, Finale}
}

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}

// System wraps a function for scheduling. It runs in Update unless placed
// elsewhere with InStage.
func System(system systemFn) systemScheduleBuilder {
	if reflect.TypeOf(system).Kind() != reflect.Func {
		panic(fmt.Sprintf("system must be a func, got %T", system))
	}
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

type stagePosition struct {
	target Stage
}

func AfterStage(s Stage) stagePosition {
	return stagePosition{target: s}
}

func (app *App) hasStage(name string) bool {
	_, ok := app.systems[name]
	return ok
}

// UseStage inserts stage right after an existing one. Adding a stage that is
// already scheduled is a no-op.
func (app *App) UseStage(stage Stage, where stagePosition) *App {
	if app.hasStage(stage.Name) {
		return app
	}
	stageIdx := slices.IndexFunc(app.stages, func(s Stage) bool { return s.Name == where.target.Name })
	if -1 == stageIdx {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}

	app.stages = slices.Insert(app.stages, stageIdx+1, stage)
	app.systems[stage.Name] = make([]systemFn, 0)

	return app
}

func (app *App) UseSystem(system systemScheduleBuilder) *App {
	if _, ok := app.systems[system.inStage.Name]; !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", system.inStage.Name))
	}
	app.systems[system.inStage.Name] = append(app.systems[system.inStage.Name], system.system)
	return app
}
