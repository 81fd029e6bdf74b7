// Copyright 2024 Gustavo C. Viegas. All rights reserved.

//go:build physcenedebug

package scene

// Debug is set when building with the physcenedebug tag.
// It is the default of Config.Strict.
const Debug = true
