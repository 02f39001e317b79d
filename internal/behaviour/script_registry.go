package behaviour

import (
	"sort"
	"sync"
)

type ScriptConstructor func() Component

var (
	registryMu     sync.RWMutex
	scriptRegistry = make(map[string]ScriptConstructor)
)

func RegisterScript(name string, constructor ScriptConstructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	scriptRegistry[name] = constructor
}

func GetAvailableScripts() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(scriptRegistry))
	for name := range scriptRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func CreateScript(name string) Component {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if constructor, exists := scriptRegistry[name]; exists {
		return constructor()
	}
	return nil
}
