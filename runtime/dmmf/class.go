package dmmf

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Action is the kind of operation a mapped action name performs.
type Action string

// Engine actions.
const (
	ActionFindOne  Action = "findOne"
	ActionFindMany Action = "findMany"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionCount    Action = "count"
)

// Class indexes a Document for lookups by name.
type Class struct {
	Document
	models   map[string]*Model
	enums    map[string]*Enum
	mappings map[string]*Mapping
	actions  map[string]actionRef
}

type actionRef struct {
	model  string
	action Action
}

// NewClass indexes the given document.
func NewClass(doc Document) *Class {
	c := &Class{
		Document: doc,
		models:   make(map[string]*Model, len(doc.Datamodel.Models)),
		enums:    make(map[string]*Enum, len(doc.Datamodel.Enums)),
		mappings: make(map[string]*Mapping, len(doc.Mappings)),
		actions:  make(map[string]actionRef),
	}
	for i := range c.Datamodel.Models {
		c.models[c.Datamodel.Models[i].Name] = &c.Datamodel.Models[i]
	}
	for i := range c.Datamodel.Enums {
		c.enums[c.Datamodel.Enums[i].Name] = &c.Datamodel.Enums[i]
	}
	for i := range c.Mappings {
		m := &c.Mappings[i]
		c.mappings[m.Model] = m
		for action, name := range map[Action]string{
			ActionFindOne:  m.FindOne,
			ActionFindMany: m.FindMany,
			ActionCreate:   m.Create,
			ActionUpdate:   m.Update,
			ActionDelete:   m.Delete,
			ActionCount:    m.Count,
		} {
			if name != "" {
				c.actions[name] = actionRef{model: m.Model, action: action}
			}
		}
	}
	return c
}

// ParseClass decodes a JSON encoded Document and indexes it.
func ParseClass(raw []byte) (*Class, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("dmmf: decode document: %w", err)
	}
	return NewClass(doc), nil
}

// Model returns the named model.
func (c *Class) Model(name string) (*Model, bool) {
	m, ok := c.models[name]
	return m, ok
}

// Enum returns the named enum.
func (c *Class) Enum(name string) (*Enum, bool) {
	e, ok := c.enums[name]
	return e, ok
}

// Mapping returns the action mapping of the named model.
func (c *Class) Mapping(model string) (*Mapping, bool) {
	m, ok := c.mappings[model]
	return m, ok
}

// ResolveAction returns the model and action kind an action name maps to.
func (c *Class) ResolveAction(name string) (*Model, Action, bool) {
	ref, ok := c.actions[name]
	if !ok {
		return nil, "", false
	}
	m, ok := c.models[ref.model]
	return m, ref.action, ok
}
