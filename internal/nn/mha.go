package nn

import (
	"fmt"
	"math"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// MultiHeadAttention implements multi-head self-attention.
//
// Architecture:
//
//	MHA(Q, K, V) = Concat(head_1, ..., head_h) * W_O
//	head_i = SDPA(Q*W_Q_i, K*W_K_i, V*W_V_i)
//
// The same layer serves both attention levels of the TNT block: the
// inner transformer attends over pixel tokens within each patch, the
// outer transformer attends over patch tokens across the image.
//
// Example:
//
//	mha := nn.NewMultiHeadAttention[B](64, 4, 0.0, 0.0, backend)
//	output := mha.Forward(x, x, x) // Self-attention
type MultiHeadAttention[B tensor.Backend] struct {
	WQ       *Linear[B] // Query projection [embed_dim, embed_dim]
	WK       *Linear[B] // Key projection [embed_dim, embed_dim]
	WV       *Linear[B] // Value projection [embed_dim, embed_dim]
	WO       *Linear[B] // Output projection [embed_dim, embed_dim]
	AttnDrop *Dropout[B]
	ProjDrop *Dropout[B]
	NumHeads int
	HeadDim  int
	EmbedDim int
	backend  B
}

// NewMultiHeadAttention creates a multi-head attention module.
//
// Parameters:
//   - embedDim: total embedding dimension (must be divisible by numHeads)
//   - numHeads: number of attention heads
//   - attnDrop: dropout probability applied to attention weights
//   - projDrop: dropout probability applied after the output projection
//   - backend: computation backend
//
// QKV projections are bias-free; the output projection carries a bias.
func NewMultiHeadAttention[B tensor.Backend](
	embedDim, numHeads int,
	attnDrop, projDrop float32,
	backend B,
) *MultiHeadAttention[B] {
	if embedDim%numHeads != 0 {
		panic(fmt.Sprintf("MultiHeadAttention: embed_dim (%d) must be divisible by num_heads (%d)", embedDim, numHeads))
	}

	return &MultiHeadAttention[B]{
		WQ:       NewLinearNoBias[B](embedDim, embedDim, backend),
		WK:       NewLinearNoBias[B](embedDim, embedDim, backend),
		WV:       NewLinearNoBias[B](embedDim, embedDim, backend),
		WO:       NewLinear[B](embedDim, embedDim, backend),
		AttnDrop: NewDropout[B](attnDrop),
		ProjDrop: NewDropout[B](projDrop),
		NumHeads: numHeads,
		HeadDim:  embedDim / numHeads,
		EmbedDim: embedDim,
		backend:  backend,
	}
}

// Forward computes multi-head self-attention.
//
// Args:
//   - query: [batch, seq_q, embed_dim]
//   - key: [batch, seq_k, embed_dim]
//   - value: [batch, seq_k, embed_dim]
//
// Returns output [batch, seq_q, embed_dim]. For self-attention, pass the
// same tensor for query, key, and value.
func (m *MultiHeadAttention[B]) Forward(
	query, key, value *tensor.Tensor[float32, B],
) *tensor.Tensor[float32, B] {
	batch := query.Shape()[0]
	seqQ := query.Shape()[1]
	seqK := key.Shape()[1]

	// 1. Project and split into heads:
	// [batch, seq, embed] -> [batch, heads, seq, head_dim]
	q := m.projectAndReshape(query, m.WQ, batch, seqQ)
	k := m.projectAndReshape(key, m.WK, batch, seqK)
	v := m.projectAndReshape(value, m.WV, batch, seqK)

	q = q.Reshape(batch, seqQ, m.NumHeads, m.HeadDim).Transpose(0, 2, 1, 3)
	k = k.Reshape(batch, seqK, m.NumHeads, m.HeadDim).Transpose(0, 2, 1, 3)
	v = v.Reshape(batch, seqK, m.NumHeads, m.HeadDim).Transpose(0, 2, 1, 3)

	// 2. Scaled dot-product attention with dropout on the weights.
	scale := float32(1.0 / math.Sqrt(float64(m.HeadDim)))
	kT := k.Transpose(0, 1, 3, 2)
	weights := q.BatchMatMul(kT).MulScalar(scale).Softmax(-1)
	weights = m.AttnDrop.Forward(weights)
	attnOut := weights.BatchMatMul(v)

	// 3. Merge heads back: [batch, heads, seq_q, head_dim] -> [batch, seq_q, embed]
	attnOut = attnOut.Transpose(0, 2, 1, 3).Reshape(batch, seqQ, m.EmbedDim)

	// 4. Output projection with dropout.
	output := m.WO.Forward(attnOut.Reshape(batch*seqQ, m.EmbedDim))
	output = m.ProjDrop.Forward(output)

	return output.Reshape(batch, seqQ, m.EmbedDim)
}

// projectAndReshape reshapes 3D input to 2D, applies Linear, and reshapes back.
func (m *MultiHeadAttention[B]) projectAndReshape(
	input *tensor.Tensor[float32, B],
	linear *Linear[B],
	batch, seq int,
) *tensor.Tensor[float32, B] {
	output2D := linear.Forward(input.Reshape(batch*seq, m.EmbedDim))
	return output2D.Reshape(batch, seq, m.EmbedDim)
}

// SetTraining propagates the training flag to the dropout layers.
func (m *MultiHeadAttention[B]) SetTraining(training bool) {
	m.AttnDrop.SetTraining(training)
	m.ProjDrop.SetTraining(training)
}

// Parameters returns all parameters of the four projection layers.
func (m *MultiHeadAttention[B]) Parameters() []*Parameter[B] {
	params := make([]*Parameter[B], 0, 8)
	params = append(params, m.WQ.Parameters()...)
	params = append(params, m.WK.Parameters()...)
	params = append(params, m.WV.Parameters()...)
	params = append(params, m.WO.Parameters()...)
	return params
}
