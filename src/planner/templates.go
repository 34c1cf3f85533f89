package planner

import (
	"dutycal/src/models"
)

// eventTemplates is the closed catalogue of schedulable day types. Items
// with a type outside this table are dropped during mapping, never
// rejected on their own.
var eventTemplates = map[string]models.EventTemplate{
	"duty":       {Summary: "Służba", ColorID: "5"},
	"duty_off":   {Summary: "Wolna służba", ColorID: "9"},
	"delegation": {Summary: "Delegacja", ColorID: "6"},
	"training":   {Summary: "Szkolenie", ColorID: "2"},
	"blood":      {Summary: "Krew", ColorID: "11"},
}

// TemplateFor returns the static template for an event type.
func TemplateFor(eventType string) (models.EventTemplate, bool) {
	tpl, ok := eventTemplates[eventType]
	return tpl, ok
}
