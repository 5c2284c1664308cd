package localstorage

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TopicChanged is the event bus topic carrying Event values.
const TopicChanged = "localstorage:changed"

// observedStorage traces every call and publishes mutations on the bus.
type observedStorage struct {
	inner  Storage
	bus    EventBus.Bus
	tracer trace.Tracer
}

func NewObserved(inner Storage, bus EventBus.Bus) Storage {
	return &observedStorage{
		inner:  inner,
		bus:    bus,
		tracer: otel.Tracer("vira/localstorage"),
	}
}

func (o *observedStorage) start(ctx context.Context, op, device, key string) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, "localstorage."+op, trace.WithAttributes(
		attribute.String("vira.device", device),
		attribute.String("vira.key", key),
	))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (o *observedStorage) publish(device, key string, op Op) {
	o.bus.Publish(TopicChanged, Event{Device: device, Key: key, Op: op, At: time.Now()})
}

func (o *observedStorage) Get(ctx context.Context, device, key string) ([]byte, bool, error) {
	ctx, span := o.start(ctx, "get", device, key)
	value, ok, err := o.inner.Get(ctx, device, key)
	span.SetAttributes(attribute.Bool("vira.found", ok))
	finish(span, err)
	return value, ok, err
}

func (o *observedStorage) Set(ctx context.Context, device, key string, value []byte) error {
	ctx, span := o.start(ctx, "set", device, key)
	err := o.inner.Set(ctx, device, key, value)
	finish(span, err)
	if err == nil {
		o.publish(device, key, OpSet)
	}
	return err
}

func (o *observedStorage) Remove(ctx context.Context, device, key string) error {
	ctx, span := o.start(ctx, "remove", device, key)
	err := o.inner.Remove(ctx, device, key)
	finish(span, err)
	if err == nil {
		o.publish(device, key, OpRemove)
	}
	return err
}

func (o *observedStorage) Keys(ctx context.Context, device string) ([]string, error) {
	ctx, span := o.start(ctx, "keys", device, "")
	keys, err := o.inner.Keys(ctx, device)
	finish(span, err)
	return keys, err
}

func (o *observedStorage) Clear(ctx context.Context, device string) error {
	ctx, span := o.start(ctx, "clear", device, "")
	err := o.inner.Clear(ctx, device)
	finish(span, err)
	if err == nil {
		o.publish(device, "", OpClear)
	}
	return err
}

func (o *observedStorage) Devices(ctx context.Context) ([]string, error) {
	ctx, span := o.start(ctx, "devices", "", "")
	devices, err := o.inner.Devices(ctx)
	finish(span, err)
	return devices, err
}

func (o *observedStorage) Close() error {
	return o.inner.Close()
}
