package pitch

// Transpose moves root by steps half-steps and spells the result for toKey.
func Transpose(root string, steps int, toKey string) (string, error) {
	i, err := IndexOf(root)
	if err != nil {
		return "", err
	}
	return Spell(i+steps, toKey)
}

// Steps returns the signed half-step distance from fromKey to toKey.
// The difference is not reduced modulo 12.
func Steps(fromKey, toKey string) (int, error) {
	from, err := IndexOf(fromKey)
	if err != nil {
		return 0, err
	}
	to, err := IndexOf(toKey)
	if err != nil {
		return 0, err
	}
	return to - from, nil
}
