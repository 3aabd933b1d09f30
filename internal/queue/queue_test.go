package queue

import (
	"fmt"
	"testing"

	. "github.com/ava12/syntaxdoc/internal/test"
)

func TestComputeSize(t *testing.T) {
	for i := 0; i <= 33; i++ {
		name := fmt.Sprintf("%d elements", i)
		t.Run(name, func(t *testing.T) {
			size := computeSize(i)
			Assert(t, size >= minSize, "expecting at least %d, got %d", minSize, size)
			Assert(t, size&(size+1) == 0, "expecting 2^n - 1, got %b", size)
			Assert(t, size >= i, "expecting size >= %d, got %d", i, size)
			if size > minSize {
				Assert(t, (size>>1) < i, "expecting size/2 < %d, got size %d", i, size)
			}
		})
	}
}

func TestEmpty(t *testing.T) {
	q := New[int]()
	ExpectInt(t, minSize+1, len(q.items))
	ExpectInt(t, 0, q.head)
	ExpectInt(t, 0, q.tail)
	ExpectInt(t, minSize, q.size)
}

func TestGrow(t *testing.T) {
	items := make([]int, minSize)
	q := New[int](items...)
	ExpectInt(t, minSize, q.size)
	q.Append(1)
	newSize := (minSize << 1) + 1
	ExpectInt(t, newSize, q.size)
	for i := 0; i < minSize; i++ {
		q.Append(i)
		ExpectInt(t, newSize, q.size)
	}
	q.Append(1)
	ExpectInt(t, (newSize<<1)+1, q.size)
}

func TestShrink(t *testing.T) {
	halfSize := (minSize << 1) + 1
	fullSize := (halfSize << 1) + 1
	items := make([]int, fullSize)
	q := New[int](items...)
	ExpectInt(t, fullSize, q.size)

	q.tail = minSize + 1
	q.head = fullSize
	q.First()
	ExpectInt(t, fullSize, q.size)

	q.tail = minSize
	q.head = fullSize - 1
	q.First()
	ExpectInt(t, fullSize, q.size)
	q.First()
	ExpectInt(t, halfSize, q.size)

	q.tail = 1
	q.head = q.size
	q.First()
	ExpectInt(t, minSize, q.size)
}

func TestFifoOrder(t *testing.T) {
	q := New[int](1, 2)
	q.Append(3, 4, 5, 6)
	ExpectInt(t, 6, q.Len())
	ExpectBool(t, false, q.IsEmpty())

	items := q.Items()
	ExpectInt(t, 6, len(items))
	for i, v := range items {
		ExpectInt(t, i+1, v)
	}

	for i := 1; i <= 6; i++ {
		v, f := q.First()
		ExpectBool(t, true, f)
		ExpectInt(t, i, v)
	}
	_, f := q.First()
	ExpectBool(t, false, f)
	ExpectBool(t, true, q.IsEmpty())
}

func TestWrappedItems(t *testing.T) {
	q := New[int]()
	q.Append(1, 2, 3)
	q.First()
	q.First()
	q.Append(4, 5)
	Assert(t, q.tail < q.head, "expecting wrapped buffer, got head %d tail %d", q.head, q.tail)
	items := q.Items()
	ExpectInt(t, 3, len(items))
	for i, v := range items {
		ExpectInt(t, i+3, v)
	}
}

func TestUnique(t *testing.T) {
	u := NewUnique("a", "b", "a")
	ExpectBool(t, false, u.Add("b"))
	ExpectBool(t, true, u.Add("c"))

	var got []string
	for v, f := u.Next(); f; v, f = u.Next() {
		got = append(got, v)
		u.Add(v)
	}
	Expect(t, fmt.Sprint(got) == "[a b c]", "[a b c]", got)
	ExpectBool(t, true, u.Seen("a"))
	ExpectBool(t, false, u.Seen("d"))
	ExpectBool(t, true, u.IsEmpty())
}
