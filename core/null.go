package core

// NewNullPipeline returns a pipeline that does nothing: no device, no
// allocation, no side effects. It is the default stand-in before a real
// pipeline exists and the fallback when HMD support is disabled.
func NewNullPipeline() Pipeline {
	return &NullPipeline{}
}

// NullPipeline satisfies Pipeline without a device.
type NullPipeline struct{}

// Render implements Pipeline.
func (NullPipeline) Render() error { return nil }

// GetInput implements Pipeline.
func (NullPipeline) GetInput() {}

// IsMoving implements Pipeline.
func (NullPipeline) IsMoving() bool { return false }

// IsUsingDebugDevice implements Pipeline.
func (NullPipeline) IsUsingDebugDevice() bool { return false }

// Destroy implements Pipeline.
func (NullPipeline) Destroy() {}
