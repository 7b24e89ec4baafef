// Package prefs holds the kiosk preference catalog and its persisted state.
//
// The catalog is static: a list of boolean [Descriptor] entries and a list of
// [Preset] groups. A [Store] tracks the current on/off state for every entry
// and is the capability lookup the rest of the kiosk reads through
// [Store.IsEnabled]. State is persisted in ~/.config/marquee/prefs.toml and
// reloaded with [Watch] when the file is edited by hand.
package prefs
