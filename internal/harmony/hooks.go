// Package harmony generates compilable HarmonyLib patch skeletons for
// methods of a loaded assembly.
package harmony

import "strings"

// HookKind names a Harmony patch entry point.
type HookKind string

const (
	HookPrefix     HookKind = "Prefix"
	HookPostfix    HookKind = "Postfix"
	HookTranspiler HookKind = "Transpiler"
	HookFinalizer  HookKind = "Finalizer"
)

var hookNames = map[string]HookKind{
	"prefix":     HookPrefix,
	"postfix":    HookPostfix,
	"transpiler": HookTranspiler,
	"finalizer":  HookFinalizer,
}

// ParseHooks interprets hook kind names. Each value may itself be a
// comma-separated list, so both ["Prefix","Postfix"] and
// ["Prefix,Postfix"] parse the same way. Matching is case-insensitive.
// Unrecognized names are dropped silently; duplicates keep their first
// position. The caller decides what an empty result means.
func ParseHooks(values ...string) []HookKind {
	var hooks []HookKind
	seen := make(map[HookKind]bool)
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			kind, ok := hookNames[strings.ToLower(strings.TrimSpace(part))]
			if !ok || seen[kind] {
				continue
			}
			seen[kind] = true
			hooks = append(hooks, kind)
		}
	}
	return hooks
}

// HookNames renders hook kinds back to their canonical strings.
func HookNames(hooks []HookKind) []string {
	names := make([]string, len(hooks))
	for i, h := range hooks {
		names[i] = string(h)
	}
	return names
}
