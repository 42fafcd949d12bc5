package mirage

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{
		app: NewApp(),
	}
}

// UseStates switches the app into stateful mode. Systems registered with
// InState only run while their state is active.
func (b *AppBuilder) UseStates(initialState State, finalState State) *AppBuilder {
	b.app.setStates(initialState, finalState)
	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

func (b *AppBuilder) Build() *App {
	return b.app.UseModules(b.modules...)
}
