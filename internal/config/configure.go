package config

// ConfigureDataNode registers dn in the programmatic layer and returns the
// applied data node for its id.
func (r *Registry) ConfigureDataNode(dn *DataNodeConfig) (*DataNodeConfig, error) {
	return registerAs(r.Register, dn)
}

// ConfigureTask registers t in the programmatic layer and returns the
// applied task for its id.
func (r *Registry) ConfigureTask(t *TaskConfig) (*TaskConfig, error) {
	return registerAs(r.Register, t)
}

// ConfigureScenario registers s in the programmatic layer and returns the
// applied scenario for its id.
func (r *Registry) ConfigureScenario(s *ScenarioConfig) (*ScenarioConfig, error) {
	return registerAs(r.Register, s)
}

// SetDefaultDataNode installs the data node defaults. dn must use DefaultID.
func (r *Registry) SetDefaultDataNode(dn *DataNodeConfig) (*DataNodeConfig, error) {
	return registerAs(r.SetDefault, dn)
}

// SetDefaultTask installs the task defaults. t must use DefaultID.
func (r *Registry) SetDefaultTask(t *TaskConfig) (*TaskConfig, error) {
	return registerAs(r.SetDefault, t)
}

// SetDefaultScenario installs the scenario defaults. s must use DefaultID.
func (r *Registry) SetDefaultScenario(s *ScenarioConfig) (*ScenarioConfig, error) {
	return registerAs(r.SetDefault, s)
}

func registerAs[T Section](register func(Section) (Section, error), s T) (T, error) {
	var zero T
	out, err := register(s)
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}
