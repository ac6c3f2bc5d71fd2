package aspen

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// sceneVersion is the scene document version this package reads and writes.
const sceneVersion = 1

// --- Document shapes ---

type sceneFile struct {
	Name     string         `json:"name"`
	Version  int            `json:"version"`
	Settings sceneSettings  `json:"settings"`
	Entities []entityRecord `json:"entities"`
}

type sceneSettings struct {
	Gravity         [2]float64 `json:"gravity"`
	BackgroundColor [4]float64 `json:"backgroundColor"`
	PixelsPerUnit   float64    `json:"pixelsPerUnit"`
	FixedTimestep   float64    `json:"fixedTimestep,omitempty"`
}

type transformRecord struct {
	Position [2]float64  `json:"position"`
	Rotation float64     `json:"rotation"`
	Scale    *[2]float64 `json:"scale,omitempty"` // nil means (1, 1)
	ZIndex   int         `json:"zIndex,omitempty"`
}

type entityRecord struct {
	ID        uint64            `json:"id,omitempty"`
	Name      string            `json:"name"`
	Tag       string            `json:"tag,omitempty"`
	Enabled   *bool             `json:"enabled,omitempty"` // nil means true
	Transform transformRecord   `json:"transform"`
	Comps     []json.RawMessage `json:"components,omitempty"`
	Behaviors []behaviorRecord  `json:"behaviors,omitempty"`
	Children  []entityRecord    `json:"children,omitempty"`
}

type behaviorRecord struct {
	Src   string         `json:"src"`
	Props map[string]any `json:"props,omitempty"`
}

// componentTypeHeader extracts the discriminator from a tagged component
// record before the full payload is handed to a factory.
type componentTypeHeader struct {
	Type string `json:"type"`
}

// --- Factory registry ---

// ComponentFactory builds a component from its full scene record (including
// the "type" key).
type ComponentFactory func(data json.RawMessage) (Component, error)

// BehaviorFactory builds a behavior from the props object of its scene
// record.
type BehaviorFactory func(props map[string]any) (Behavior, error)

// Registry maps scene type names to component and behavior constructors.
// The loader looks types up by exact string match; a miss is logged and the
// member is skipped, never fatal.
type Registry struct {
	components map[string]ComponentFactory
	behaviors  map[string]BehaviorFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]ComponentFactory),
		behaviors:  make(map[string]BehaviorFactory),
	}
}

// RegisterComponent registers a factory for the given scene type name.
// Re-registering a name replaces the previous factory.
func (r *Registry) RegisterComponent(typeName string, factory ComponentFactory) {
	r.components[typeName] = factory
}

// RegisterBehavior registers a factory under a behavior's logical name: the
// base name of its src path with the extension stripped.
func (r *Registry) RegisterBehavior(name string, factory BehaviorFactory) {
	r.behaviors[name] = factory
}

// scriptName extracts the logical behavior name from a src path:
// "scripts/PlayerController.js" -> "PlayerController".
func scriptName(src string) string {
	base := path.Base(src)
	return strings.TrimSuffix(base, path.Ext(base))
}

// --- Loading ---

// LoadScene parses a JSON scene document and builds a world from it,
// resolving components and behaviors through reg. Unknown type names are
// reported as warnings and skipped; the entity is still created with its
// remaining members.
//
// Load-time warnings go to stderr only: the world is freshly constructed, so
// no caller can have subscribed to its event channel yet. EventWarning is
// reserved for warnings raised on a running world.
func LoadScene(data []byte, reg *Registry) (*World, error) {
	var doc sceneFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if doc.Version != sceneVersion {
		warnf("scene %q has version %d, expected %d; loading anyway", doc.Name, doc.Version, sceneVersion)
	}

	w := NewWorld(doc.Name)
	w.Settings.Gravity = Vec2{doc.Settings.Gravity[0], doc.Settings.Gravity[1]}
	w.Settings.BackgroundColor = Color{
		doc.Settings.BackgroundColor[0],
		doc.Settings.BackgroundColor[1],
		doc.Settings.BackgroundColor[2],
		doc.Settings.BackgroundColor[3],
	}
	if doc.Settings.PixelsPerUnit > 0 {
		w.Settings.PixelsPerUnit = doc.Settings.PixelsPerUnit
	}
	if doc.Settings.FixedTimestep > 0 {
		w.Settings.FixedTimestep = doc.Settings.FixedTimestep
	}

	for i := range doc.Entities {
		e := buildEntity(&doc.Entities[i], reg)
		w.Add(e)
	}
	return w, nil
}

// buildEntity constructs one entity record, recursively including children.
func buildEntity(rec *entityRecord, reg *Registry) *Entity {
	var e *Entity
	if rec.ID != 0 {
		e = newEntityWithID(rec.ID, rec.Name)
	} else {
		e = NewEntity(rec.Name)
	}
	e.Tag = rec.Tag
	if rec.Enabled != nil {
		e.Enabled = *rec.Enabled
	}

	e.Transform.X = rec.Transform.Position[0]
	e.Transform.Y = rec.Transform.Position[1]
	e.Transform.Rotation = rec.Transform.Rotation
	if rec.Transform.Scale != nil {
		e.Transform.ScaleX = rec.Transform.Scale[0]
		e.Transform.ScaleY = rec.Transform.Scale[1]
	}
	e.Transform.ZIndex = rec.Transform.ZIndex

	for _, raw := range rec.Comps {
		var head componentTypeHeader
		if err := json.Unmarshal(raw, &head); err != nil {
			warnf("entity %q: malformed component record: %v", rec.Name, err)
			continue
		}
		factory, ok := reg.components[head.Type]
		if !ok {
			warnf("entity %q: unknown component type %q, skipped", rec.Name, head.Type)
			continue
		}
		c, err := factory(raw)
		if err != nil {
			warnf("entity %q: component %q: %v", rec.Name, head.Type, err)
			continue
		}
		e.AddComponent(c)
	}

	for _, brec := range rec.Behaviors {
		name := scriptName(brec.Src)
		factory, ok := reg.behaviors[name]
		if !ok {
			warnf("entity %q: unknown behavior %q (src %q), skipped", rec.Name, name, brec.Src)
			continue
		}
		b, err := factory(brec.Props)
		if err != nil {
			warnf("entity %q: behavior %q: %v", rec.Name, name, err)
			continue
		}
		e.AddBehavior(b)
	}

	for i := range rec.Children {
		child := buildEntity(&rec.Children[i], reg)
		child.SetParent(e)
	}
	return e
}

// --- Saving ---

// SceneComponent is implemented by components that persist to scene files.
// SceneData returns a value that marshals to the component's JSON record;
// the loader's "type" discriminator is added automatically.
type SceneComponent interface {
	SceneType() string
	SceneData() any
}

// SceneBehavior is implemented by behaviors that persist to scene files.
type SceneBehavior interface {
	SceneSrc() string
	SceneProps() map[string]any
}

// SaveScene serializes the world's live tree to a JSON scene document.
// Components and behaviors that do not implement [SceneComponent] or
// [SceneBehavior] are omitted from the output.
func SaveScene(w *World) ([]byte, error) {
	doc := sceneFile{
		Name:    w.Name,
		Version: sceneVersion,
		Settings: sceneSettings{
			Gravity: [2]float64{w.Settings.Gravity.X, w.Settings.Gravity.Y},
			BackgroundColor: [4]float64{
				w.Settings.BackgroundColor.R,
				w.Settings.BackgroundColor.G,
				w.Settings.BackgroundColor.B,
				w.Settings.BackgroundColor.A,
			},
			PixelsPerUnit: w.Settings.PixelsPerUnit,
			FixedTimestep: w.Settings.FixedTimestep,
		},
	}
	for _, root := range w.roots {
		rec, err := saveEntity(root)
		if err != nil {
			return nil, err
		}
		doc.Entities = append(doc.Entities, rec)
	}
	return json.MarshalIndent(&doc, "", "  ")
}

func saveEntity(e *Entity) (entityRecord, error) {
	rec := entityRecord{
		ID:   e.id,
		Name: e.Name,
		Tag:  e.Tag,
		Transform: transformRecord{
			Position: [2]float64{e.Transform.X, e.Transform.Y},
			Rotation: e.Transform.Rotation,
			ZIndex:   e.Transform.ZIndex,
		},
	}
	if !e.Enabled {
		enabled := false
		rec.Enabled = &enabled
	}
	if e.Transform.ScaleX != 1 || e.Transform.ScaleY != 1 {
		scale := [2]float64{e.Transform.ScaleX, e.Transform.ScaleY}
		rec.Transform.Scale = &scale
	}

	for _, c := range e.components {
		sc, ok := c.(SceneComponent)
		if !ok {
			continue
		}
		raw, err := json.Marshal(sc.SceneData())
		if err != nil {
			return rec, fmt.Errorf("entity %q: component %q: %w", e.Name, sc.SceneType(), err)
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return rec, fmt.Errorf("entity %q: component %q data is not an object: %w", e.Name, sc.SceneType(), err)
		}
		m["type"] = sc.SceneType()
		tagged, err := json.Marshal(m)
		if err != nil {
			return rec, err
		}
		rec.Comps = append(rec.Comps, tagged)
	}

	for _, b := range e.behaviors {
		sb, ok := b.(SceneBehavior)
		if !ok {
			continue
		}
		rec.Behaviors = append(rec.Behaviors, behaviorRecord{
			Src:   sb.SceneSrc(),
			Props: sb.SceneProps(),
		})
	}

	for _, child := range e.children {
		crec, err := saveEntity(child)
		if err != nil {
			return rec, err
		}
		rec.Children = append(rec.Children, crec)
	}
	return rec, nil
}
