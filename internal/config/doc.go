// Package config loads the marquee kiosk configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/marquee/config.toml (default)
//  3. If the config file doesn't exist, fall back to built-in defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. MARQUEE_BACKEND_URL, MARQUEE_TRANSPORT and MARQUEE_LOG_LEVEL override
//     the file
//
// LoadDotEnv can be called first to pull those variables from a .env file.
//
// # Default Values
//
//   - Backend: 127.0.0.1:8183
//   - Transport: push (websocket), poll every 2s when set to "poll"
//   - Heartbeat timeout: 30s
//   - Log file: ~/.local/state/marquee/marquee.log
//   - Preferences: ~/.config/marquee/prefs.toml
//
// Durations are Go duration strings ("750ms", "2s"). A malformed duration,
// an unknown transport or log level, or invalid TOML is an error; the
// kiosk refuses to start on a config it cannot understand.
package config
