package functional

func Zero[T any]() (t T) {
	return
}

func MappingTransformer[T, V any](
	transformer func(T) V,
) func(T, int) V {

	return func(value T, _ int) V {
		return transformer(value)
	}
}
