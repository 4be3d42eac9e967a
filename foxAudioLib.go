package main

import (
	"fmt"
	"os"
	"time"

	"github.com/foxenfurter/foxwavestream/foxlog"
	"github.com/foxenfurter/foxwavestream/foxwaveconvert"
	"github.com/foxenfurter/foxwavestream/foxwavestream"
)

func main() {
	const functionName = "Main"

	if len(os.Args) < 2 {
		fmt.Println("usage: foxwavestream <path-to-wav-file>")
		os.Exit(1)
	}

	startTime := time.Now()

	logger, err := foxlog.NewLogger(os.TempDir()+"/foxwavestream.log", true)
	if err != nil {
		fmt.Println(functionName+": could not open log file, continuing without tracing:", err)
	}
	defer logger.Close()

	inputFile := os.Args[1]
	fmt.Println("Test: Decoding input file...", inputFile)

	myDecoder, err := foxwavestream.OpenFile(inputFile, logger.Hook())
	if err != nil {
		fmt.Println(functionName+": could not open WAVE file:", err)
		os.Exit(1)
	}
	defer myDecoder.Close()

	fmt.Println("Test: SampleRate:", myDecoder.SampleRate(),
		"Channels:", myDecoder.NumChannels(),
		"BitDepth:", myDecoder.BitDepth(),
		"TotalSamples:", myDecoder.TotalSampleCount())

	const chunkSamples = 4096
	floatBuf := make([]float32, chunkSamples)

	var totalConverted uint64
	var peak float32
	for {
		n := foxwaveconvert.ReadAsFloat32(myDecoder, chunkSamples, floatBuf)
		if n == 0 {
			break
		}

		for i := 0; i < n; i++ {
			v := floatBuf[i]
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}

		totalConverted += uint64(n)
	}

	elapsedTime := time.Since(startTime).Milliseconds()

	println("")
	println("============================================================================================")
	println("foxwavestream: converted samples:", int(totalConverted), " peak:", fmt.Sprintf("%.4f", peak), " elapsed(ms):", int(elapsedTime))
	println("============================================================================================")
	println("")
}
