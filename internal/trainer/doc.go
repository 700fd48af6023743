// Package trainer runs the training and testing phases of the digit
// classifier.
//
// A Session owns the network for the duration of a run. It walks
//
//	Idle → Training → Testing → Done
//
// Training runs Epochs × BatchesPerEpoch × BatchSize samples; every sample is
// pushed through the same Step: forward pass, squared-error cost, backward
// pass, SGD update, argmax prediction. Testing runs once over the test set
// and, by default, skips the backward pass and the update.
//
// Example:
//
//	session, err := trainer.NewSession(trainer.DefaultConfig(), net, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, eval, err := session.Run(trainSet, testSet)
package trainer
