//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// compileShader compiles WGSL source, caching by name.
func (b *Backend) compileShader(name, source string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, ok := b.shaders[name]; ok {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if shader, ok := b.shaders[name]; ok {
		return shader
	}
	shader := b.device.CreateShaderModuleWGSL(name, source)
	b.shaders[name] = shader
	return shader
}

// getOrCreatePipeline returns a cached compute pipeline for the named shader.
func (b *Backend) getOrCreatePipeline(name, source string) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, ok := b.pipelines[name]; ok {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	shader := b.compileShader(name, source)

	b.mu.Lock()
	defer b.mu.Unlock()
	if pipeline, ok := b.pipelines[name]; ok {
		return pipeline
	}
	pipeline := b.device.CreateComputePipelineSimple(name, shader, "main")
	b.pipelines[name] = pipeline
	return pipeline
}

// createBuffer creates a GPU storage buffer initialized with data.
func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	buf := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:             uint64(len(data)),
		Usage:            usage,
		MappedAtCreation: wgpu.True,
	})
	copy(buf.GetMappedRange(0, uint(len(data))), data)
	buf.Unmap()
	return buf
}

// createEmptyBuffer creates an uninitialized GPU buffer of the given size.
func (b *Backend) createEmptyBuffer(size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	return b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  size,
		Usage: usage,
	})
}

// createUniformBuffer creates a uniform buffer, padding to 16-byte alignment.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	if size%16 != 0 {
		size += 16 - size%16
	}
	buf := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:             size,
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		MappedAtCreation: wgpu.True,
	})
	copy(buf.GetMappedRange(0, uint(size)), data)
	buf.Unmap()
	return buf
}

// readBuffer copies a GPU buffer back to host memory through a staging buffer.
func (b *Backend) readBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := b.createEmptyBuffer(size, wgpu.BufferUsageMapRead|wgpu.BufferUsageCopyDst)
	defer staging.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	commands := encoder.Finish(nil)
	b.queue.Submit(commands)
	encoder.Release()

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("webgpu: buffer map failed: %w", err)
	}
	defer staging.Unmap()

	data := make([]byte, size)
	copy(data, staging.GetMappedRange(0, uint(size)))
	return data, nil
}

// dispatch runs a prepared pipeline over the given bind group entries.
func (b *Backend) dispatch(pipeline *wgpu.ComputePipeline, entries []wgpu.BindGroupEntry, x, y uint32) {
	layout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(layout, entries...)
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(x, y, 1)
	pass.End()
	commands := encoder.Finish(nil)
	b.queue.Submit(commands)
	encoder.Release()
}

// runBinary executes an element-wise binary shader over two same-shape tensors.
func (b *Backend) runBinary(name, source string, a, c *tensor.RawTensor) *tensor.RawTensor {
	n := a.NumElements()
	size := uint64(a.ByteSize())

	bufA := b.createBuffer(a.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufA.Release()
	bufB := b.createBuffer(c.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufB.Release()
	bufOut := b.createEmptyBuffer(size, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	defer bufOut.Release()

	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params, uint32(n))
	bufParams := b.createUniformBuffer(params)
	defer bufParams.Release()

	pipeline := b.getOrCreatePipeline(name, source)
	b.dispatch(pipeline, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufA, 0, size),
		wgpu.BufferBindingEntry(1, bufB, 0, size),
		wgpu.BufferBindingEntry(2, bufOut, 0, size),
		wgpu.BufferBindingEntry(3, bufParams, 0, 16),
	}, uint32((n+workgroupSize-1)/workgroupSize), 1)

	data, err := b.readBuffer(bufOut, size)
	if err != nil {
		panic(fmt.Sprintf("webgpu: %s readback: %v", name, err))
	}
	out, err := tensor.NewRawFromBytes(data, a.Shape().Clone(), a.DType(), tensor.WebGPU)
	if err != nil {
		panic(fmt.Sprintf("webgpu: %s result: %v", name, err))
	}
	return out
}

// runScalar executes an element-wise shader between a tensor and a scalar.
func (b *Backend) runScalar(name, source string, x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	n := x.NumElements()
	size := uint64(x.ByteSize())

	bufX := b.createBuffer(x.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufX.Release()
	bufOut := b.createEmptyBuffer(size, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	defer bufOut.Release()

	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params, uint32(n))
	binary.LittleEndian.PutUint32(params[4:], math.Float32bits(scalar))
	bufParams := b.createUniformBuffer(params)
	defer bufParams.Release()

	pipeline := b.getOrCreatePipeline(name, source)
	b.dispatch(pipeline, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufX, 0, size),
		wgpu.BufferBindingEntry(1, bufOut, 0, size),
		wgpu.BufferBindingEntry(2, bufParams, 0, 16),
	}, uint32((n+workgroupSize-1)/workgroupSize), 1)

	data, err := b.readBuffer(bufOut, size)
	if err != nil {
		panic(fmt.Sprintf("webgpu: %s readback: %v", name, err))
	}
	out, err := tensor.NewRawFromBytes(data, x.Shape().Clone(), x.DType(), tensor.WebGPU)
	if err != nil {
		panic(fmt.Sprintf("webgpu: %s result: %v", name, err))
	}
	return out
}

// runMatMul executes the matmul shader for a 2D A[m,k] x B[k,n].
func (b *Backend) runMatMul(a, c *tensor.RawTensor, m, k, n int) *tensor.RawTensor {
	outSize := uint64(m * n * 4)

	bufA := b.createBuffer(a.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufA.Release()
	bufB := b.createBuffer(c.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufB.Release()
	bufOut := b.createEmptyBuffer(outSize, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	defer bufOut.Release()

	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params, uint32(m))
	binary.LittleEndian.PutUint32(params[4:], uint32(k))
	binary.LittleEndian.PutUint32(params[8:], uint32(n))
	bufParams := b.createUniformBuffer(params)
	defer bufParams.Release()

	pipeline := b.getOrCreatePipeline("matmul", matmulShader)
	b.dispatch(pipeline, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufA, 0, uint64(a.ByteSize())),
		wgpu.BufferBindingEntry(1, bufB, 0, uint64(c.ByteSize())),
		wgpu.BufferBindingEntry(2, bufOut, 0, outSize),
		wgpu.BufferBindingEntry(3, bufParams, 0, 16),
	}, uint32((n+15)/16), uint32((m+15)/16))

	data, err := b.readBuffer(bufOut, outSize)
	if err != nil {
		panic(fmt.Sprintf("webgpu: matmul readback: %v", err))
	}
	out, err := tensor.NewRawFromBytes(data, tensor.Shape{m, n}, tensor.Float32, tensor.WebGPU)
	if err != nil {
		panic(fmt.Sprintf("webgpu: matmul result: %v", err))
	}
	return out
}

// runSoftmax executes the row softmax shader over a [rows, dim] view of x.
func (b *Backend) runSoftmax(x *tensor.RawTensor, rows, dim int) *tensor.RawTensor {
	size := uint64(x.ByteSize())

	bufX := b.createBuffer(x.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufX.Release()
	bufOut := b.createEmptyBuffer(size, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	defer bufOut.Release()

	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params, uint32(rows))
	binary.LittleEndian.PutUint32(params[4:], uint32(dim))
	bufParams := b.createUniformBuffer(params)
	defer bufParams.Release()

	pipeline := b.getOrCreatePipeline("softmax", softmaxShader)
	b.dispatch(pipeline, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufX, 0, size),
		wgpu.BufferBindingEntry(1, bufOut, 0, size),
		wgpu.BufferBindingEntry(2, bufParams, 0, 16),
	}, uint32((rows+workgroupSize-1)/workgroupSize), 1)

	data, err := b.readBuffer(bufOut, size)
	if err != nil {
		panic(fmt.Sprintf("webgpu: softmax readback: %v", err))
	}
	out, err := tensor.NewRawFromBytes(data, x.Shape().Clone(), x.DType(), tensor.WebGPU)
	if err != nil {
		panic(fmt.Sprintf("webgpu: softmax result: %v", err))
	}
	return out
}
