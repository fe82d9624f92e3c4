package senglish_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/senglish"
	"github.com/aretw0/senglish/pkg/adapters/dom"
)

// Example builds a small tree and wires an event that re-enters the interpreter.
func Example() {
	in, err := senglish.New()
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	ctx := context.Background()
	report, err := in.Cmd(ctx, `
		create div named counter with text "0" ..
		create button named inc ..
		when inc is click do insert text "1" into counter .. addClass bumped to counter end`)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("ok:", report.OK(), "segments:", len(report.Outcomes))

	if err := in.Trigger(ctx, "inc", "click", ""); err != nil {
		log.Fatal(err)
	}
	_ = in.Sync(ctx)

	snap, _ := in.Inspect(ctx)
	snap.Walk(func(depth int, n dom.Snapshot) bool {
		fmt.Printf("%*s%s#%s %q %v\n", depth*2, "", n.Tag, n.ID, n.Text, n.Classes)
		return true
	})

	// Output:
	// ok: true segments: 3
	// body#body "" []
	//   div#counter "1" [bumped]
	//   button#inc "" []
}
