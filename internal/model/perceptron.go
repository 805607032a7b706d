package model

import "github.com/qvantel/synapse/internal/nnmath"

// NewPerceptron builds the classic perceptron: a feed-forward network with the
// standard logistic sigmoid activation. All feed-forward features apply
func NewPerceptron(layers []int, winit WeightInit, features int) (*FeedForward, error) {
	return NewFeedForward(layers, nnmath.NewLogistic(), winit, features)
}
