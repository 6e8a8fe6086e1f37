package generator

import "go.uber.org/fx"

// Module provides the Factory used by commands to build a Generator once the
// configuration is final.
var Module = fx.Module("generator", fx.Provide(
	func() Factory { return NewAnthropic },
))
