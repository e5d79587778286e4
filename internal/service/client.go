package service

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/solary/instrument"
)

// Client is a typed wrapper around TelescopeServiceClient.
type Client struct {
	raw TelescopeServiceClient
}

// NewClient returns a Client using cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{raw: NewTelescopeServiceClient(cc)}
}

// Instruments lists catalog entries by kind.
type Instruments struct {
	Reflectors []string `json:"reflectors"`
	CCDs       []string `json:"ccds"`
}

func (c *Client) RegisterReflector(ctx context.Context, name string, cfg instrument.ReflectorConfig, opts ...grpc.CallOption) error {
	req, err := toStruct(map[string]any{"name": name, "reflector": cfg})
	if err != nil {
		return fmt.Errorf("encode reflector: %w", err)
	}
	_, err = c.raw.RegisterReflector(ctx, req, opts...)
	return err
}

func (c *Client) RegisterCCD(ctx context.Context, name string, cfg instrument.CCDConfig, opts ...grpc.CallOption) error {
	req, err := toStruct(map[string]any{"name": name, "ccd": cfg})
	if err != nil {
		return fmt.Errorf("encode ccd: %w", err)
	}
	_, err = c.raw.RegisterCCD(ctx, req, opts...)
	return err
}

func (c *Client) ListInstruments(ctx context.Context, opts ...grpc.CallOption) (*Instruments, error) {
	resp, err := c.raw.ListInstruments(ctx, &structpb.Struct{}, opts...)
	if err != nil {
		return nil, err
	}
	out := &Instruments{}
	if err := fromStruct(resp, out); err != nil {
		return nil, fmt.Errorf("decode instruments: %w", err)
	}
	return out, nil
}

// Evaluate runs obs on the telescope composed of the named instruments.
func (c *Client) Evaluate(ctx context.Context, reflector, ccd string, obs instrument.Observation, opts ...grpc.CallOption) (*instrument.Evaluation, error) {
	req, err := toStruct(map[string]any{
		"reflector":   reflector,
		"ccd":         ccd,
		"observation": obs,
	})
	if err != nil {
		return nil, fmt.Errorf("encode observation: %w", err)
	}
	resp, err := c.raw.EvaluateObservation(ctx, req, opts...)
	if err != nil {
		return nil, err
	}
	ev := &instrument.Evaluation{}
	if err := fromStruct(resp, ev); err != nil {
		return nil, fmt.Errorf("decode evaluation: %w", err)
	}
	return ev, nil
}
