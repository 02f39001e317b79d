package behaviour

import "sync"

// ComponentManager manages all GameObjects and their components
type ComponentManager struct {
	mu          sync.Mutex
	gameObjects []*GameObject
	toDestroy   []*GameObject
}

func NewComponentManager() *ComponentManager {
	return &ComponentManager{
		gameObjects: make([]*GameObject, 0),
		toDestroy:   make([]*GameObject, 0),
	}
}

// RegisterGameObject adds a GameObject to the manager
func (cm *ComponentManager) RegisterGameObject(obj *GameObject) {
	cm.mu.Lock()
	cm.gameObjects = append(cm.gameObjects, obj)
	cm.mu.Unlock()
	obj.internalStart()
}

func (cm *ComponentManager) UnregisterGameObject(obj *GameObject) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.unregister(obj)
}

func (cm *ComponentManager) unregister(obj *GameObject) {
	for i, o := range cm.gameObjects {
		if o == obj {
			cm.gameObjects = append(cm.gameObjects[:i], cm.gameObjects[i+1:]...)
			obj.Destroy()
			return
		}
	}
}

// FindGameObject finds a GameObject by name
func (cm *ComponentManager) FindGameObject(name string) *GameObject {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for _, obj := range cm.gameObjects {
		if obj.Name == name {
			return obj
		}
	}
	return nil
}

// FindGameObjectsWithTag finds all GameObjects with a specific tag
func (cm *ComponentManager) FindGameObjectsWithTag(tag string) []*GameObject {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	var result []*GameObject
	for _, obj := range cm.gameObjects {
		if obj.Tag == tag {
			result = append(result, obj)
		}
	}
	return result
}

// snapshot flushes pending destroys and returns the live objects.
func (cm *ComponentManager) snapshot() []*GameObject {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	// Process destroyed objects
	if len(cm.toDestroy) > 0 {
		for _, obj := range cm.toDestroy {
			cm.unregister(obj)
		}
		cm.toDestroy = cm.toDestroy[:0]
	}
	return append([]*GameObject(nil), cm.gameObjects...)
}

// UpdateAll calls Update on all active GameObjects
func (cm *ComponentManager) UpdateAll(dt float32) {
	for _, obj := range cm.snapshot() {
		obj.internalUpdate(dt)
	}
}

// FixedUpdateAll calls FixedUpdate on all active GameObjects
func (cm *ComponentManager) FixedUpdateAll(dt float32) {
	for _, obj := range cm.snapshot() {
		obj.internalFixedUpdate(dt)
	}
}

// DestroyGameObject marks a GameObject for destruction (will be removed next frame)
func (cm *ComponentManager) DestroyGameObject(obj *GameObject) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.toDestroy = append(cm.toDestroy, obj)
}

// GetAllGameObjects returns all registered GameObjects
func (cm *ComponentManager) GetAllGameObjects() []*GameObject {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return append([]*GameObject(nil), cm.gameObjects...)
}

// Clear removes all GameObjects
func (cm *ComponentManager) Clear() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for _, obj := range cm.gameObjects {
		obj.Destroy()
	}
	cm.gameObjects = cm.gameObjects[:0]
	cm.toDestroy = cm.toDestroy[:0]
}
