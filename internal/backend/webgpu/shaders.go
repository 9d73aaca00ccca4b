//go:build windows

package webgpu

// workgroupSize is the number of threads per workgroup for 1D dispatches.
const workgroupSize = 256

// binaryShader builds an element-wise binary op shader for + - * /.
func binaryShader(op string) string {
	return `
struct Params {
    n: u32,
}

@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> out: array<f32>;
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let i = gid.x;
    if (i >= params.n) {
        return;
    }
    out[i] = a[i] ` + op + ` b[i];
}
`
}

// scalarShader builds an op between each element and a uniform scalar.
func scalarShader(op string) string {
	return `
struct Params {
    n: u32,
    s: f32,
}

@group(0) @binding(0) var<storage, read> x: array<f32>;
@group(0) @binding(1) var<storage, read_write> out: array<f32>;
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let i = gid.x;
    if (i >= params.n) {
        return;
    }
    out[i] = x[i] ` + op + ` params.s;
}
`
}

// matmulShader computes C[M,N] = A[M,K] * B[K,N] with 16x16 tiles of threads.
const matmulShader = `
struct Params {
    m: u32,
    k: u32,
    n: u32,
}

@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> out: array<f32>;
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(16, 16)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let row = gid.y;
    let col = gid.x;
    if (row >= params.m || col >= params.n) {
        return;
    }
    var acc = 0.0;
    for (var i = 0u; i < params.k; i = i + 1u) {
        acc = acc + a[row * params.k + i] * b[i * params.n + col];
    }
    out[row * params.n + col] = acc;
}
`

// softmaxShader normalizes each row of a [rows, dim] view; one thread per row.
const softmaxShader = `
struct Params {
    rows: u32,
    dim: u32,
}

@group(0) @binding(0) var<storage, read> x: array<f32>;
@group(0) @binding(1) var<storage, read_write> out: array<f32>;
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let row = gid.x;
    if (row >= params.rows) {
        return;
    }
    let base = row * params.dim;

    var maxVal = x[base];
    for (var i = 1u; i < params.dim; i = i + 1u) {
        maxVal = max(maxVal, x[base + i]);
    }

    var sum = 0.0;
    for (var i = 0u; i < params.dim; i = i + 1u) {
        let e = exp(x[base + i] - maxVal);
        out[base + i] = e;
        sum = sum + e;
    }

    for (var i = 0u; i < params.dim; i = i + 1u) {
        out[base + i] = out[base + i] / sum;
    }
}
`
