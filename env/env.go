package env

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// GetEnv gets a string value from the environment
func GetEnv(name string, varName string) (string, error) {
	value, exists := os.LookupEnv(varName)
	if !exists {
		return "", fmt.Errorf("no environment variable found for the %s ('%s')", name, varName)
	}

	return value, nil
}

// GetIntEnv gets an integer value from the environment and parses it
func GetIntEnv(name string, varName string) (int, error) {
	value, err := GetEnv(name, varName)
	if err != nil {
		return 0, err
	}

	asInt, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("environment variable value '%s' invalid for the %s ('%s'):\n%s",
			value, name, varName, err)
	}

	return asInt, nil
}

// GetDurationEnv gets a duration value from the environment and parses it
func GetDurationEnv(name string, varName string) (time.Duration, error) {
	value, err := GetEnv(name, varName)
	if err != nil {
		return 0, err
	}

	asDuration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("environment variable value '%s' invalid for the %s ('%s'):\n%s",
			value, name, varName, err)
	}

	return asDuration, nil
}

// GetDurationEnvOrDefault gets a duration value from the environment,
// falling back to the given default when the variable is unset
func GetDurationEnvOrDefault(name string, varName string, fallback time.Duration) (time.Duration, error) {
	if _, exists := os.LookupEnv(varName); !exists {
		return fallback, nil
	}

	return GetDurationEnv(name, varName)
}
