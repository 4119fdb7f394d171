package checker

import (
	"errors"
	"reflect"

	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/function"
	"github.com/specialistvlad/pipeconf/internal/storage"
)

// DataNodeChecker validates data node sections.
type DataNodeChecker struct{}

func (DataNodeChecker) Name() string { return "data_node" }

func (DataNodeChecker) Check(r *config.Registry, c *IssueCollector) {
	for _, dn := range r.DataNodes() {
		checkSection(dn, c)
		if !checkOverlap(dn, c, "Task", taskAttributes) {
			checkOverlap(dn, c, "Scenario", scenarioAttributes)
		}
		checkStorageType(dn, c)
		checkScope(dn, c)
		checkValidityPeriod(dn, c)
		before := c.Len()
		checkRequiredProperties(dn, c)
		checkPropertyTypes(dn, c)
		checkReadWriteFunctions(dn, c)
		if c.Len() == before {
			checkDescriptor(dn, c)
		}
		checkExposedType(dn, c)
	}
}

func checkStorageType(dn *config.DataNodeConfig, c *IssueCollector) {
	t := dn.StorageType()
	if storage.Known(t) {
		return
	}
	c.Errorf(dn.Address(), "storage_type", string(t),
		"'storage_type' field of DataNodeConfig '%s' must be one of %s.%s",
		dn.ID(), quoteAll(storage.Names()), didYouMean(string(t), storage.Names()))
}

func checkScope(dn *config.DataNodeConfig, c *IssueCollector) {
	scope := dn.Scope()
	if scope.Valid() {
		return
	}
	names := make([]string, 0, len(config.Scopes()))
	for _, s := range config.Scopes() {
		names = append(names, string(s))
	}
	c.Errorf(dn.Address(), "scope", string(scope),
		"'scope' field of DataNodeConfig '%s' must be populated with a Scope value: %s.%s",
		dn.ID(), quoteAll(names), didYouMean(string(scope), names))
}

func checkValidityPeriod(dn *config.DataNodeConfig, c *IssueCollector) {
	raw := dn.RawValidityPeriod()
	if raw == nil {
		return
	}
	if _, ok := dn.ValidityPeriod(); ok {
		return
	}
	c.Errorf(dn.Address(), "validity_period", raw,
		"'validity_period' field of DataNodeConfig '%s' must be unset or populated with a duration value.",
		dn.ID())
}

func checkRequiredProperties(dn *config.DataNodeConfig, c *IssueCollector) {
	rule, ok := storage.RuleFor(dn.StorageType())
	if !ok {
		return
	}
	for _, prop := range rule.MissingRequired(dn.Properties()) {
		report := c.Errorf
		if dn.IsDefault() {
			report = c.Warnf
		}
		report(dn.Address(), prop, nil,
			"DataNodeConfig '%s' is missing the required property '%s' for type '%s'.",
			dn.ID(), prop, dn.StorageType())
	}
}

func checkPropertyTypes(dn *config.DataNodeConfig, c *IssueCollector) {
	rule, ok := storage.RuleFor(dn.StorageType())
	if !ok {
		return
	}
	props := dn.Properties()
	for _, key := range rule.TypedKeys() {
		v, ok := props[key]
		if !ok || isEmpty(v) {
			continue
		}
		kind := rule.Types[key]
		if storage.MatchKind(kind, v) {
			continue
		}
		if kind == storage.KindFunction && isAnonymousFunc(v) {
			c.Errorf(dn.Address(), key, v,
				"'%s' of DataNodeConfig '%s' must be populated with a serializable named function, not a function literal.",
				key, dn.ID())
			continue
		}
		c.Errorf(dn.Address(), key, v,
			"'%s' of DataNodeConfig '%s' must be populated with a %s value.",
			key, dn.ID(), kind)
	}
}

func checkReadWriteFunctions(dn *config.DataNodeConfig, c *IssueCollector) {
	rule, ok := storage.RuleFor(dn.StorageType())
	if !ok || len(rule.AtLeastOne) == 0 || dn.IsDefault() {
		return
	}
	props := dn.Properties()
	for _, key := range rule.AtLeastOne {
		if v, ok := props[key]; ok && !isEmpty(v) {
			return
		}
	}
	c.Errorf(dn.Address(), rule.AtLeastOne[0], nil,
		"Either of %s fields of DataNodeConfig '%s' must be populated with a function.",
		quoteAll(rule.AtLeastOne), dn.ID())
}

// checkDescriptor reports properties the storage descriptor cannot be
// decoded from, such as a port that is not a number.
func checkDescriptor(dn *config.DataNodeConfig, c *IssueCollector) {
	if !storage.Known(dn.StorageType()) {
		return
	}
	_, err := dn.Descriptor()
	var missing *storage.MissingRequiredPropertyError
	if err == nil || errors.As(err, &missing) {
		return
	}
	report := c.Errorf
	if dn.IsDefault() {
		report = c.Warnf
	}
	report(dn.Address(), "properties", nil,
		"Properties of DataNodeConfig '%s' do not fit storage type '%s': %v",
		dn.ID(), dn.StorageType(), err)
}

func checkExposedType(dn *config.DataNodeConfig, c *IssueCollector) {
	exposed := dn.ExposedType()
	if exposed == nil || config.KnownExposedType(exposed) {
		return
	}
	c.Errorf(dn.Address(), "exposed_type", exposed,
		"The 'exposed_type' of DataNodeConfig '%s' must be either %s, or a custom type.%s",
		dn.ID(), quoteAll(config.ExposedTypes()), suggestExposed(exposed))
}

func suggestExposed(v any) string {
	if s, ok := v.(string); ok {
		return didYouMean(s, config.ExposedTypes())
	}
	return ""
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

func isAnonymousFunc(v any) bool {
	if ref, ok := v.(function.Ref); ok {
		return ref.IsAnonymous()
	}
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func && function.Of(v).IsAnonymous()
}
