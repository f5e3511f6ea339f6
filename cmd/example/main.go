// Command example walks through the binding and rope packages: value
// bindings, computed bindings, effects, the Follow/BindStream adapters,
// and the rope incremental-collection binding.
package main

import (
	"fmt"
	"time"

	"github.com/coregx/binding"
	"github.com/coregx/binding/notify"
	"github.com/coregx/binding/rope"
)

func main() {
	demoValueBindings()
	demoComputedBindings()
	demoEffects()
	demoStreamAdapters()
	demoRope()
	fmt.Println("\n=== Demo Complete ===")
}

func demoValueBindings() {
	fmt.Println("=== Phase 1: Value Bindings ===")

	name := binding.New("Ada")
	rel := name.WhenChanged(notify.Func(func() {
		fmt.Println("Value changed:", name.Get())
	}))
	defer rel.Done()

	fmt.Println("Current value:", name.Get())
	name.Set("Ada Lovelace")
	name.Update(func(v string) string { return v + "!" })
}

func demoComputedBindings() {
	fmt.Println("\n=== Phase 2: Computed Bindings ===")

	count := binding.New(5)
	doubled := binding.Computed(func() int {
		return count.Get() * 2
	})

	fmt.Printf("count = %d, doubled = %d\n", count.Get(), doubled.Get())
	count.Set(10)
	fmt.Printf("After count.Set(10): doubled = %d\n", doubled.Get())

	firstName := binding.New("John")
	lastName := binding.New("Doe")
	fullName := binding.Computed(func() string {
		return firstName.Get() + " " + lastName.Get()
	})
	fmt.Printf("\nFull name: %s\n", fullName.Get())
	firstName.Set("Jane")
	fmt.Printf("After firstName.Set('Jane'): %s\n", fullName.Get())

	quadrupled := binding.Computed(func() int {
		return doubled.Get() * 2
	})
	fmt.Printf("\ncount = %d, quadrupled = %d\n", count.Get(), quadrupled.Get())
	count.Set(5)
	fmt.Printf("After count.Set(5): quadrupled = %d\n", quadrupled.Get())
}

func demoEffects() {
	fmt.Println("\n=== Phase 3: Effects ===")

	effectCount := binding.New(0)
	fmt.Println("Creating effect (runs immediately)...")
	eff1 := binding.NewEffect(func() {
		fmt.Printf("Effect running! Count is: %d\n", effectCount.Get())
	})
	defer eff1.Stop()

	effectCount.Set(5)
	effectCount.Set(10)

	fmt.Println("\nEffect with cleanup:")
	timer := binding.New(0)
	eff2 := binding.NewEffectWithCleanup(func() func() {
		current := timer.Get()
		fmt.Printf("Starting timer with value: %d\n", current)
		return func() {
			fmt.Printf("Cleaning up timer value: %d\n", current)
		}
	})
	timer.Set(1)
	timer.Set(2)
	eff2.Stop()
}

func demoStreamAdapters() {
	fmt.Println("\n=== Phase 4: Stream Adapters ===")

	events := make(chan int, 4)
	total := binding.BindStream(events, 0, func(sum, ev int) int { return sum + ev })
	events <- 1
	events <- 2
	events <- 3
	close(events)
	time.Sleep(50 * time.Millisecond)
	fmt.Println("Folded total:", total.Get())

	fs := binding.Follow(total)
	defer fs.Close()
	fmt.Println("Follow delivers:", <-fs.C)
}

func demoRope() {
	fmt.Println("\n=== Phase 5: Rope Bindings ===")

	r := rope.New[string, struct{}]()
	defer r.Close()

	r.Extend([]string{"a", "b", "c"})
	fmt.Println("cells:", r.ReadCells(rope.Range{Start: 0, End: r.Len()}))

	r.Replace(rope.Range{Start: 1, End: 2}, []string{"B1", "B2"})
	fmt.Println("after Replace:", r.ReadCells(rope.Range{Start: 0, End: r.Len()}))

	stream := r.FollowChanges()
	r.Extend([]string{"d"})
	select {
	case e := <-stream.C:
		fmt.Printf("observed edit: kind=%v range=%v cells=%v\n", e.Kind, e.Range, e.Cells)
	case <-time.After(time.Second):
		fmt.Println("timed out waiting for edit")
	}
	stream.Close()

	upper := rope.Map[string, struct{}, string](r, func(s string) string {
		return s + "*"
	})
	defer upper.Close()
	time.Sleep(50 * time.Millisecond)
	fmt.Println("mapped cells:", upper.ReadCells(rope.Range{Start: 0, End: upper.Len()}))
}
