package container

import (
	"fmt"
	"strconv"
	"time"
)

// Label keys persisted on every instance container. Labels are the only
// record of how an instance was started, so ListInstances can rebuild the
// full picture from the engine alone.
const (
	labelPrefix = "mlserve."

	// LabelManagedBy identifies containers created by this tool.
	LabelManagedBy = labelPrefix + "managed-by"
	// LabelModel records the model identifier the instance serves.
	LabelModel = labelPrefix + "model"
	// LabelExternalPort records the host-visible port of the mapping.
	LabelExternalPort = labelPrefix + "external-port"
	// LabelInternalPort records the serving port inside the container.
	LabelInternalPort = labelPrefix + "internal-port"
	// LabelCreatedAt records the RFC3339 creation timestamp.
	LabelCreatedAt = labelPrefix + "created-at"
)

// ManagedByValue tags every container created by mlserve.
const ManagedByValue = "mlserve"

// buildLabels produces the label set for a new instance.
func buildLabels(model string, externalPort, internalPort int, now time.Time) map[string]string {
	return map[string]string{
		LabelManagedBy:    ManagedByValue,
		LabelModel:        model,
		LabelExternalPort: strconv.Itoa(externalPort),
		LabelInternalPort: strconv.Itoa(internalPort),
		LabelCreatedAt:    now.UTC().Format(time.RFC3339),
	}
}

// parsePortLabel reads an integer port label, tolerating absence (0).
func parsePortLabel(labels map[string]string, key string) (int, error) {
	v, ok := labels[key]
	if !ok || v == "" {
		return 0, nil
	}
	p, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid port in label %s=%q: %w", key, v, err)
	}
	return p, nil
}

// parseCreatedAt reads the creation timestamp label, tolerating absence.
func parseCreatedAt(labels map[string]string) time.Time {
	v, ok := labels[LabelCreatedAt]
	if !ok {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return ts
}
