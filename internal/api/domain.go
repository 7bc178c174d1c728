package api

import (
	"github.com/JaimeStill/stance/internal/classifier"
	"github.com/JaimeStill/stance/internal/comments"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Classifier *classifier.Classifier
	Runner     *comments.Runner
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	c := classifier.New(runtime.Completion, runtime.CompletionConfig, runtime.Logger)

	return &Domain{
		Classifier: c,
		Runner:     comments.NewRunner(c, c.Model(), runtime.Batch.Workers, runtime.Logger),
	}
}
