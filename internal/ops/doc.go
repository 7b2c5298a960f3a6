// Package ops defines the built-in operator descriptors of the IR.
//
// Operators are grouped the way they are registered:
//   - Activations: Gelu, Relu, Sigmoid, Tanh, Exp, Elu, Softmax, Clamp, Selu
//   - Math: Add, Subtract, Multiply, Divide, Mod (NumPy broadcasting)
//   - Shape: Transpose, Identity
//   - Graph boundary: Parameter, Const, Result
package ops
