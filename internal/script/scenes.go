package script

import (
	"slices"
	"sync"
)

var (
	scenesMu sync.RWMutex
	scenes   = map[string]string{}
)

// Register adds a scene under the provided name.
func Register(name, src string) {
	if name == "" || src == "" {
		return
	}
	scenesMu.Lock()
	defer scenesMu.Unlock()
	scenes[name] = src
}

// Scene returns the source registered under name.
func Scene(name string) (string, bool) {
	scenesMu.RLock()
	defer scenesMu.RUnlock()
	src, ok := scenes[name]
	return src, ok
}

// Scenes lists registered scene names in sorted order.
func Scenes() []string {
	scenesMu.RLock()
	defer scenesMu.RUnlock()
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func init() {
	Register("campfire", campfire)
	Register("hourglass", hourglass)
	Register("volcano", volcano)
	Register("rainfall", rainfall)
}

const campfire = `
local w, h = size()
fill(0, h - 1, w - 1, h - 1, "rock")
local cx = math.floor(w / 2)
for i = 0, 5 do
  fill(cx - 8 + i, h - 2 - i, cx + 8 - i, h - 2 - i, "wood")
end
fill(cx - 12, h - 10, cx + 12, h - 8, "leaves")
fill(cx - 20, h - 2, cx - 14, h - 2, "coal")
ignite(cx, h - 2)
ignite(cx - 1, h - 2)
`

const hourglass = `
local w, h = size()
local cx = math.floor(w / 2)
local mid = math.floor(h / 2)
fill(0, h - 1, w - 1, h - 1, "rock")
for y = 0, mid - 2 do
  local gap = mid - 1 - y
  spawn(cx - gap - 2, y, "metal")
  spawn(cx + gap + 2, y, "metal")
end
fill(cx - mid + 4, 2, cx + mid - 4, 8, "sand")
`

const volcano = `
local w, h = size()
local cx = math.floor(w / 2)
local peak = math.floor(h / 3)
for y = peak, h - 1 do
  local half = y - peak
  if half >= 3 then
    fill(cx - half, y, cx - 3, y, "rock")
    fill(cx + 3, y, cx + half, y, "rock")
  end
end
fill(cx - 2, peak + 4, cx + 2, h - 1, "lava")
fill(0, h - 6, math.floor(w / 6), h - 2, "wood")
fill(w - 1 - math.floor(w / 6), h - 6, w - 1, h - 2, "leaves")
`

const rainfall = `
local w, h = size()
fill(0, h - 1, w - 1, h - 1, "rock")
fill(0, h - 8, math.floor(w / 3), h - 2, "sand")
fill(math.floor(w / 3) + 4, h - 10, math.floor(w / 3) + 10, h - 2, "wood")
for x = 0, w - 1, 3 do
  spawn(x, 0, "water")
  spawn(x + 1, 4, "water")
end
`
