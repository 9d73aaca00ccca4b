package nn

import (
	"math"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// ScaledDotProductAttention computes attention using the scaled dot-product
// mechanism:
//
//	Attention(Q, K, V) = softmax(QK^T / sqrt(d_k)) * V
//
// Parameters:
//   - query: Query tensor [batch, heads, seq_q, head_dim]
//   - key: Key tensor [batch, heads, seq_k, head_dim]
//   - value: Value tensor [batch, heads, seq_k, head_dim]
//   - scale: Scaling factor (0 for auto-compute as 1/sqrt(head_dim))
//
// Returns:
//   - output: Attended values [batch, heads, seq_q, head_dim]
//   - weights: Attention weights [batch, heads, seq_q, seq_k]
func ScaledDotProductAttention[B tensor.Backend](
	query, key, value *tensor.Tensor[float32, B],
	scale float32,
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	validateAttentionInputs(query, key, value)

	if scale == 0 {
		scale = float32(1.0 / math.Sqrt(float64(query.Shape()[3])))
	}

	// scores = Q @ K^T / sqrt(d_k)
	kT := key.Transpose(0, 1, 3, 2)
	scores := query.BatchMatMul(kT).MulScalar(scale)

	// softmax over keys, then weighted sum of values
	weights := scores.Softmax(-1)
	output := weights.BatchMatMul(value)

	return output, weights
}

func validateAttentionInputs[B tensor.Backend](
	query, key, value *tensor.Tensor[float32, B],
) {
	if len(query.Shape()) != 4 || len(key.Shape()) != 4 || len(value.Shape()) != 4 {
		panic("ScaledDotProductAttention: inputs must be 4D [batch, heads, seq, head_dim]")
	}
	if query.Shape()[3] != key.Shape()[3] {
		panic("ScaledDotProductAttention: query and key must have same head_dim")
	}
	if key.Shape()[2] != value.Shape()[2] {
		panic("ScaledDotProductAttention: key and value must have same seq length")
	}
}
