package frame

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Registry holds dataframes by unique name
type Registry struct {
	frames map[string]*Dataframe
	order  []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{frames: make(map[string]*Dataframe)}
}

// Add registers df and returns the name it was stored under. A frame with no
// name gets a generated one. On a name collision the existing frame is
// replaced only when replace is set; otherwise a random suffix is appended to
// df's name until it is unique. df.Name is updated to the final name.
func (r *Registry) Add(df *Dataframe, replace bool) string {
	name := df.Name
	switch {
	case name == "":
		name = r.unusedName(randomName)
	case r.Has(name) && !replace:
		base := name
		name = r.unusedName(func() string { return base + "_" + randomName() })
	}
	df.Name = name
	if !r.Has(name) {
		r.order = append(r.order, name)
	}
	r.frames[name] = df
	return name
}

func (r *Registry) unusedName(gen func() string) string {
	for {
		if name := gen(); !r.Has(name) {
			return name
		}
	}
}

// Get returns the frame registered as name
func (r *Registry) Get(name string) (*Dataframe, bool) {
	df, ok := r.frames[name]
	return df, ok
}

// Has reports whether name is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.frames[name]
	return ok
}

// Delete removes name, reporting whether it was present
func (r *Registry) Delete(name string) bool {
	if !r.Has(name) {
		return false
	}
	delete(r.frames, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return true
}

// Names returns registered names in insertion order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered frames
func (r *Registry) Len() int {
	return len(r.frames)
}

// NameOf returns the registered name of df, if this exact instance is held
func (r *Registry) NameOf(df *Dataframe) (string, bool) {
	for _, name := range r.order {
		if r.frames[name] == df {
			return name, true
		}
	}
	return "", false
}

// randomName returns 8 upper-case hex characters
func randomName() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:8])
}
