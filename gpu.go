package vram_estimator

// _CommonGPUs maps common device names to their VRAM capacity.
// This catalog is a convenience for front ends resolving a device name
// before calling the estimator; the engine itself only sees capacities.
var _CommonGPUs = []struct {
	Name   string
	Memory GigabytesScalar
}{
	{"RTX 3060", 12},
	{"RTX 3070", 8},
	{"RTX 3080", 10},
	{"RTX 3090", 24},
	{"RTX 4060", 8},
	{"RTX 4070", 12},
	{"RTX 4080", 16},
	{"RTX 4090", 24},
	{"RTX 6000", 48},
	{"A100-40G", 40},
	{"A100-80G", 80},
	{"H100", 80},
	{"H200", 141},
}

// LookupGPUMemory returns the VRAM capacity of a known device name,
// exact match only.
func LookupGPUMemory(name string) (GigabytesScalar, bool) {
	for i := range _CommonGPUs {
		if _CommonGPUs[i].Name == name {
			return _CommonGPUs[i].Memory, true
		}
	}
	return 0, false
}

// GPUNames returns the catalog device names in order.
func GPUNames() []string {
	ns := make([]string, len(_CommonGPUs))
	for i := range _CommonGPUs {
		ns[i] = _CommonGPUs[i].Name
	}
	return ns
}
