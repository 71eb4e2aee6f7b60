package hastack

// @generated from stack_test.go

//go:generate go run scripts/gen_stack_expects.go -- stack_test.go stack_expects_test.go

import "time"

func withStackOptions(opts ...Option) func(stackTestCase) stackTestCase {
	return func(st stackTestCase) stackTestCase {
		return st.withOptions(opts...)
	}
}

func withStackCapacity(n int) func(stackTestCase) stackTestCase {
	return func(st stackTestCase) stackTestCase {
		return st.withCapacity(n)
	}
}

func withStackValues(values ...Value) func(stackTestCase) stackTestCase {
	return func(st stackTestCase) stackTestCase {
		return st.withValues(values...)
	}
}

func withStackInts(values ...int) func(stackTestCase) stackTestCase {
	return func(st stackTestCase) stackTestCase {
		return st.withInts(values...)
	}
}

func withStackTimeout(timeout time.Duration) func(stackTestCase) stackTestCase {
	return func(st stackTestCase) stackTestCase {
		return st.withTimeout(timeout)
	}
}

func expectStackError(err error) func(stackTestCase) stackTestCase {
	return func(st stackTestCase) stackTestCase {
		return st.expectError(err)
	}
}

func expectStackValues(values ...Value) func(stackTestCase) stackTestCase {
	return func(st stackTestCase) stackTestCase {
		return st.expectValues(values...)
	}
}

func expectStackLen(n int) func(stackTestCase) stackTestCase {
	return func(st stackTestCase) stackTestCase {
		return st.expectLen(n)
	}
}

func expectStackRepr(repr string) func(stackTestCase) stackTestCase {
	return func(st stackTestCase) stackTestCase {
		return st.expectRepr(repr)
	}
}

func expectStackOutput(output string) func(stackTestCase) stackTestCase {
	return func(st stackTestCase) stackTestCase {
		return st.expectOutput(output)
	}
}

func expectStackDump(dump string) func(stackTestCase) stackTestCase {
	return func(st stackTestCase) stackTestCase {
		return st.expectDump(dump)
	}
}
