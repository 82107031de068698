// SPDX-License-Identifier: MPL-2.0

package release

// DefaultPluginName is the step path the npm plugin is registered under.
const DefaultPluginName = "@semantic-release/npm"

// SiblingLookup finds the configuration the driver gave this plugin in another
// step, used by Verify to fill options that were left out of the verify step.
type SiblingLookup func(rctx *Context) (PluginConfig, bool)

// StepLookup returns a SiblingLookup matching publish steps whose Path equals name.
// The first match wins.
func StepLookup(name string) SiblingLookup {
	return func(rctx *Context) (PluginConfig, bool) {
		if rctx == nil {
			return PluginConfig{}, false
		}
		for _, step := range rctx.Options.Publish {
			if step.Path != "" && step.Path == name {
				return step.Config, true
			}
		}
		return PluginConfig{}, false
	}
}
