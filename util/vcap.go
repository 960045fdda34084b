package util

import (
	"encoding/json"
	"fmt"
	"sort"
)

// VcapServices is a parsed VCAP_SERVICES JSON document, keyed by service label
type VcapServices map[string][]VcapService

// ParseVcapServices parses raw VCAP_SERVICES JSON
func ParseVcapServices(data []byte) (VcapServices, error) {
	services := VcapServices{}
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// FindServiceByName finds a bound service by instance name, whatever its label
func (s VcapServices) FindServiceByName(name string) *VcapService {
	for _, bound := range s {
		for i := range bound {
			if bound[i].Name == name {
				return &bound[i]
			}
		}
	}
	return nil
}

// GetServiceNames lists the bound service instance names, sorted
func (s VcapServices) GetServiceNames() []string {
	names := []string{}
	for _, bound := range s {
		for _, service := range bound {
			names = append(names, service.Name)
		}
	}
	sort.Strings(names)
	return names
}

// VcapService is one bound service; only the fields used for catalog access are parsed
type VcapService struct {
	Name        string          `json:"name"`
	Label       string          `json:"label"`
	Credentials VcapCredentials `json:"credentials"`
}

// VcapCredentials holds the credentials block of a bound service
type VcapCredentials map[string]interface{}

// String recovers the value at the given key, assuming it is a string
func (c VcapCredentials) String(key string) (string, error) {
	val, ok := c[key]
	if !ok {
		return "", fmt.Errorf("Credential key does not exist: %s", key)
	}
	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("Could not convert value to string: key=%s, value=%v", key, val)
	}
	return str, nil
}

// Int recovers the value at the given key as an int; JSON numbers arrive as float64
func (c VcapCredentials) Int(key string) (int, error) {
	val, ok := c[key]
	if !ok {
		return 0, fmt.Errorf("Credential key does not exist: %s", key)
	}
	switch n := val.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	}
	return 0, fmt.Errorf("Could not convert value to int: key=%s, value=%v", key, val)
}
