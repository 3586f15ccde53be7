package synth

import (
	"context"
	"io"
	"log"
	"math"
	"math/cmplx"
	"sync"
	"time"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/hajimehoshi/oto"
)

const (
	sampleRate      = 48000
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
	fftSize         = 2048 // multiple of samplesPerCycle
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096
const secPerSample = 1.0 / sampleRate

func now() float64 {
	return float64(time.Now().UnixNano()) / 1000 / 1000 / 1000
}

// ----- Audio ----- //

// Audio connects the processor to the sound card: it renders one block per
// Read() call into the oto player, bucketing asynchronously arriving MIDI
// messages to sample offsets inside the next block.
type Audio struct {
	ctx        context.Context
	otoContext *oto.Context
	params     *Params
	processor  *Processor

	mu       sync.Mutex
	events   [][][3]byte // per-sample-offset buckets, length samplesPerCycle*2
	blocks   []SubBlock  // reused across Read calls
	out      []float64   // ring of the last fftSize rendered samples
	pos      int64
	lastRead float64

	fftPlan   *algofft.Plan[complex128]
	fftIn     []complex128
	fftOut    []complex128
	fftWindow []float64
	fftResult []float64
}

var _ io.Reader = (*Audio)(nil)

// NewAudio ...
func NewAudio() (*Audio, error) {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return nil, err
	}
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, err
	}
	window := make([]float64, fftSize)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/fftSize))
	}
	params := NewParams()
	return &Audio{
		ctx:        context.Background(),
		otoContext: otoContext,
		params:     params,
		processor:  NewProcessor(sampleRate, params),
		events:     make([][][3]byte, samplesPerCycle*2),
		blocks:     make([]SubBlock, 0, samplesPerCycle),
		out:        make([]float64, fftSize),
		fftPlan:    plan,
		fftIn:      make([]complex128, fftSize),
		fftOut:     make([]complex128, fftSize),
		fftWindow:  window,
		fftResult:  make([]float64, fftSize),
	}, nil
}

// Params exposes the parameter store for control-thread glue.
func (a *Audio) Params() *Params {
	return a.params
}

func (a *Audio) Read(buf []byte) (int, error) {
	select {
	case <-a.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		a.mu.Lock()
		defer a.mu.Unlock()
		timestamp := now()
		bufSamples := int(len(buf) / bytesPerSample)

		offset := a.pos % fftSize
		out := a.out[offset : offset+int64(bufSamples)]

		a.blocks = a.blocks[:0]
		start := 0
		for i := 1; i < bufSamples; i++ {
			if len(a.events[i]) > 0 {
				a.blocks = append(a.blocks, SubBlock{Start: start, End: i, MIDI: a.events[start]})
				start = i
			}
		}
		a.blocks = append(a.blocks, SubBlock{Start: start, End: bufSamples, MIDI: a.events[start]})
		if err := a.processor.Process(a.blocks, out); err != nil {
			return 0, err
		}

		writeBuffer(a.out, offset, buf, 0)
		writeBuffer(a.out, offset, buf, 1)
		a.pos += int64(bufSamples)
		a.lastRead = timestamp
		eventLength := len(a.events)
		for i := 0; i < eventLength; i++ {
			if i >= eventLength/2 {
				a.events[i-eventLength/2] = a.events[i]
			}
			a.events[i] = nil
		}
		return len(buf), nil
	}
}

func writeBuffer(out []float64, outOffset int64, buf []byte, ch int) {
	sampleLength := int(len(buf) / bytesPerSample)
	for i := 0; i < sampleLength; i++ {
		value := out[outOffset+int64(i)]
		switch bitDepthInBytes {
		case 1:
			const max = 127
			b := int(value * max)
			buf[bytesPerSample*i+ch] = byte(b + 128)
		case 2:
			const max = 32767
			b := int16(value * max)
			buf[bytesPerSample*i+2*ch] = byte(b)
			buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
		}
	}
}

// AddMidiEvent buckets one raw MIDI message to the sample offset matching
// its arrival time relative to the last render.
func (a *Audio) AddMidiEvent(data []byte) {
	if len(data) == 0 {
		return
	}
	var m [3]byte
	copy(m[:], data)
	a.mu.Lock()
	defer a.mu.Unlock()
	offset := now() - a.lastRead
	index := int(offset / secPerSample)
	if index < 0 {
		log.Println("[WARN] index < 0")
		index = 0
	}
	if index >= len(a.events) {
		log.Println("[WARN] index >= event length")
		index = len(a.events) - 1
	}
	a.events[index] = append(a.events[index], m)
}

// Close ...
func (a *Audio) Close() error {
	log.Println("Closing Audio...")
	return a.otoContext.Close()
}

// Start plays audio until the context is cancelled.
func (a *Audio) Start(ctx context.Context) error {
	p := a.otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	a.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, a, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// GetFFT returns the magnitude spectrum of the most recent fftSize output
// samples, Hann-windowed.
func (a *Audio) GetFFT() ([]float64, error) {
	a.mu.Lock()
	// out:    | 4 | 1 | 2 | 3 |
	// offset:     ^
	// fftIn:  | 1 | 2 | 3 | 4 |
	offset := int(a.pos % fftSize)
	for i := 0; i < fftSize; i++ {
		a.fftIn[i] = complex(a.out[(offset+i)%fftSize]*a.fftWindow[i], 0)
	}
	a.mu.Unlock()
	if err := a.fftPlan.Forward(a.fftOut, a.fftIn); err != nil {
		return nil, err
	}
	for i := range a.fftResult {
		a.fftResult[i] = cmplx.Abs(a.fftOut[i]) * 2 / fftSize
	}
	return a.fftResult[:fftSize/2], nil
}
