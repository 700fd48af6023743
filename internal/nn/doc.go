// Package nn implements the two-layer sigmoid/softmax classifier: activation
// functions, the squared-error cost, weight initializers, and the network's
// forward and backward passes.
//
// Gradients are derived by hand; there is no automatic differentiation.
//
// Example:
//
//	init, _ := nn.NewInitializer("xavier", 0, 42)
//	net, _ := nn.NewNetwork(nn.DefaultSizes, init)
//	act := net.Forward(input)
//	cost := nn.MeanSquaredError(act.Output, target)
//	grads := net.Backward(act, target)
package nn
