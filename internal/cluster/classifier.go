// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

// Package cluster wraps the pre-fitted feature scaler and clustering model.
//
// Both artifacts are exported by the offline training pipeline as JSON
// (the pickled originals stay with the notebook). They are loaded once at
// process start; a load failure is fatal because the service cannot score
// anything without them. Classification is deterministic: the same vector
// and the same artifacts always yield the same cluster id.
package cluster

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/nuru-analytics/nuru/internal/features"
)

// Scaler holds the fitted standard-scaler parameters: per-feature mean and
// scale, in model feature order.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Model holds the fitted cluster centroids in scaled feature space.
type Model struct {
	Centroids [][]float64 `json:"centroids"`
}

// Classifier maps a raw feature vector to an integer cluster id.
type Classifier struct {
	scaler Scaler
	model  Model
}

// New builds a Classifier from already-parsed artifacts, validating their
// shape against the feature contract.
func New(scaler Scaler, model Model) (*Classifier, error) {
	if len(scaler.Mean) != features.NumFeatures || len(scaler.Scale) != features.NumFeatures {
		return nil, fmt.Errorf("scaler shape mismatch: mean=%d scale=%d, want %d",
			len(scaler.Mean), len(scaler.Scale), features.NumFeatures)
	}
	if len(model.Centroids) == 0 {
		return nil, fmt.Errorf("cluster model has no centroids")
	}
	for i, c := range model.Centroids {
		if len(c) != features.NumFeatures {
			return nil, fmt.Errorf("centroid %d has %d dimensions, want %d", i, len(c), features.NumFeatures)
		}
	}
	return &Classifier{scaler: scaler, model: model}, nil
}

// Load reads the scaler and cluster model artifacts from disk.
// Any read, parse, or shape error here prevents process start.
func Load(scalerPath, modelPath string) (*Classifier, error) {
	var scaler Scaler
	if err := readJSON(scalerPath, &scaler); err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}

	var model Model
	if err := readJSON(modelPath, &model); err != nil {
		return nil, fmt.Errorf("load cluster model: %w", err)
	}

	return New(scaler, model)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Scale applies the fitted standard scaler to a raw feature vector.
// A zero scale (constant training column) passes the centered value through
// rather than dividing by zero.
func (c *Classifier) Scale(v features.Vector) features.Vector {
	var scaled features.Vector
	for i := 0; i < features.NumFeatures; i++ {
		s := c.scaler.Scale[i]
		if s == 0 {
			s = 1
		}
		scaled[i] = (v[i] - c.scaler.Mean[i]) / s
	}
	return scaled
}

// Predict returns the cluster id whose centroid is nearest to the scaled
// vector by squared Euclidean distance. The lowest index wins ties, keeping
// prediction deterministic.
func (c *Classifier) Predict(scaled features.Vector) int {
	best := 0
	bestDist := sqDist(scaled, c.model.Centroids[0])
	for i := 1; i < len(c.model.Centroids); i++ {
		if d := sqDist(scaled, c.model.Centroids[i]); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// Classify scales a raw feature vector and predicts its cluster.
func (c *Classifier) Classify(v features.Vector) int {
	return c.Predict(c.Scale(v))
}

// Clusters returns the number of clusters in the fitted model.
func (c *Classifier) Clusters() int {
	return len(c.model.Centroids)
}

func sqDist(v features.Vector, centroid []float64) float64 {
	var sum float64
	for i := 0; i < features.NumFeatures; i++ {
		d := v[i] - centroid[i]
		sum += d * d
	}
	return sum
}
