package main

import (
	"fmt"

	ft "github.com/parka-ml/flattrain"
	"github.com/parka-ml/flattrain/networks"
)

const (
	statusFrequency int = 100

	// main hyperparameters
	hiddenSize    int     = 4
	maxIterations int     = 2000
	targetError   float64 = 0.01
)

func main() {
	dataset := [][][]float64{
		{{0, 0}, {0}},
		{{0, 1}, {1}},
		{{1, 0}, {1}},
		{{1, 1}, {0}},
	}

	fmt.Println("Setting up network...")
	net, err := networks.NewFeedForward(2, hiddenSize, 1)
	if err != nil {
		panic(err.Error())
	}

	data, err := ft.Data(dataset)
	if err != nil {
		panic(err.Error())
	}

	trainer, err := ft.New(net, data, ft.DefaultConfig())
	if err != nil {
		panic(err.Error())
	}

	fmt.Printf("Training with %d workers...\n", trainer.Workers())
	fmt.Println("Iteration, Error")

	args := ft.TrainArgs{
		RunCondition: ft.Both(ft.TrainUntil(maxIterations), ft.ErrorBelow(targetError)),
		SendStatus:   ft.Every(statusFrequency),
		Update: func(r ft.Result) {
			fmt.Printf("%d, %v\n", r.Iteration, r.Error)
		},
	}

	if err = trainer.Train(args); err != nil {
		panic(err.Error())
	}

	fmt.Printf("Done training! (error %v)\n", trainer.Error())

	for _, d := range dataset {
		outs, err := net.Run(d[0])
		if err != nil {
			panic(err.Error())
		}

		fmt.Printf("%v -> %v (want %v)\n", d[0], outs, d[1])
	}
}
