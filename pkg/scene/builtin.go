package scene

import (
	"embed"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// ErrUnknownScene is returned when a name matches no built-in scene
var ErrUnknownScene = errors.New("unknown scene")

//go:embed scenes/*.yaml
var embedded embed.FS

// Info describes a built-in scene
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Spheres     int    `json:"spheres"`
}

type builtin struct {
	description string
	load        func() (*Description, error)
}

var builtins = map[string]builtin{
	"weekend": {
		description: "Random sphere field from the cover of Ray Tracing in One Weekend",
		load:        func() (*Description, error) { return NewWeekendScene(weekendSeed), nil },
	},
	"simple": {
		description: "Three spheres on a ground plane, rendered without a BVH",
		load:        func() (*Description, error) { return loadEmbedded("simple") },
	},
	"lights": {
		description: "Emissive spheres under a dim sky",
		load:        func() (*Description, error) { return loadEmbedded("lights") },
	},
}

func loadEmbedded(name string) (*Description, error) {
	data, err := embedded.ReadFile("scenes/" + name + ".yaml")
	if err != nil {
		return nil, errors.Wrapf(err, "reading built-in scene %s", name)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "built-in scene %s", name)
	}
	return d, nil
}

// Builtin returns a fresh copy of the named built-in scene
func Builtin(name string) (*Description, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownScene, "%q", name)
	}
	return b.load()
}

// ListBuiltins returns every built-in scene sorted by name
func ListBuiltins() []Info {
	infos := make([]Info, 0, len(builtins))
	for name, b := range builtins {
		info := Info{Name: name, Description: b.description}
		if d, err := b.load(); err == nil {
			info.Spheres = len(d.Spheres)
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Resolve loads a built-in scene by name, or a YAML file when nameOrPath is
// not a built-in name but exists on disk.
func Resolve(nameOrPath string) (*Description, error) {
	if _, ok := builtins[nameOrPath]; ok {
		return Builtin(nameOrPath)
	}
	if _, err := os.Stat(nameOrPath); err == nil {
		return Load(nameOrPath)
	}
	return nil, errors.Wrapf(ErrUnknownScene, "%q is neither a built-in scene nor a file", nameOrPath)
}
