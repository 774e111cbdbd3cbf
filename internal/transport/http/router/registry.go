package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// APIModule 业务模块实现该接口即可挂载到引擎
type APIModule interface{ MountAPI(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// Registry 按引擎实例收集模块，避免测试间共享全局状态
type Registry struct {
	mu   sync.RWMutex
	mods []APIModule
}

func (r *Registry) Register(mods ...APIModule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mods = append(r.mods, mods...)
}

// MountAll 在 g 上按优先级挂载所有已注册模块
func (r *Registry) MountAll(g *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]APIModule(nil), r.mods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
