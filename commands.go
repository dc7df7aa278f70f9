package handmorph

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// Stop ends the app after the current frame.
func (cmd *Commands) Stop() {
	cmd.app.Stop()
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}

// Fail records a fatal error; the next Step returns it. Used by modules whose
// setup cannot complete, since Install has no error return.
func (cmd *Commands) Fail(err error) {
	if err == nil || cmd.app.err != nil {
		return
	}
	cmd.app.err = err
	cmd.app.Logger().Errorf("%v", err)
}
