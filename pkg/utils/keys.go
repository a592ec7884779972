package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// StorageKey builds an object-storage key for a generated artifact.
func StorageKey(prefix, extension string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	return prefix + "/" + id + "." + extension, nil
}
