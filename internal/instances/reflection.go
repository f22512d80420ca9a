package instances

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/grpcreflect"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// DefaultReflectionTimeout bounds the lifetime of one reflection stream.
const DefaultReflectionTimeout = 10 * time.Second

// ReflectionCatalog resolves instance classes by asking a gRPC server's
// reflection service for the message of the same name. Answers, including
// misses, are remembered for the catalog's lifetime. Concurrent lookups of
// one class share a single request; lookups of different classes run in
// parallel.
type ReflectionCatalog struct {
	universe *typesystem.Universe
	lookups  singleflight.Group

	mu      sync.Mutex
	conn    *grpc.ClientConn
	timeout time.Duration
	known   map[string]*desc.MessageDescriptor
	missed  map[string]bool
}

// DialReflection connects to target without transport security. The
// connection is established lazily on the first lookup.
func DialReflection(target string, u *typesystem.Universe) (*ReflectionCatalog, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", target, err)
	}
	return NewReflectionCatalog(conn, u), nil
}

// NewReflectionCatalog uses an existing connection. Close closes it.
func NewReflectionCatalog(conn *grpc.ClientConn, u *typesystem.Universe) *ReflectionCatalog {
	return &ReflectionCatalog{
		universe: u,
		conn:     conn,
		timeout:  DefaultReflectionTimeout,
		known:    make(map[string]*desc.MessageDescriptor),
		missed:   make(map[string]bool),
	}
}

// SetTimeout changes the per-lookup deadline.
func (r *ReflectionCatalog) SetTimeout(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeout = d
}

// Close releases the connection. Lookups already in flight fail; cached
// answers stay available.
func (r *ReflectionCatalog) Close() error {
	r.mu.Lock()
	conn := r.conn
	r.conn = nil
	r.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// ClassProperties implements Provider.
func (r *ReflectionCatalog) ClassProperties(namespace, class string) ([]*typesystem.InstanceProperty, error) {
	md, err := r.resolve(MessageName(namespace, class))
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", namespace, class, err)
	}
	return properties(r.universe, md), nil
}

func (r *ReflectionCatalog) resolve(name string) (*desc.MessageDescriptor, error) {
	key := strings.ToLower(name)
	if md, ok, err := r.cached(key); ok {
		return md, err
	}
	v, err, _ := r.lookups.Do(key, func() (any, error) {
		if md, ok, err := r.cached(key); ok {
			return md, err
		}
		r.mu.Lock()
		conn, timeout := r.conn, r.timeout
		r.mu.Unlock()
		if conn == nil {
			return nil, fmt.Errorf("reflection catalog is closed")
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		client := grpcreflect.NewClientAuto(ctx, conn)
		defer client.Reset()

		md, err := client.ResolveMessage(name)
		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			if grpcreflect.IsElementNotFoundError(err) {
				r.missed[key] = true
				return nil, ErrUnknownClass
			}
			return nil, fmt.Errorf("reflection lookup of %s: %w", name, err)
		}
		r.known[key] = md
		return md, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*desc.MessageDescriptor), nil
}

// cached reports a remembered answer for key, if there is one.
func (r *ReflectionCatalog) cached(key string) (*desc.MessageDescriptor, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if md, ok := r.known[key]; ok {
		return md, true, nil
	}
	if r.missed[key] {
		return nil, true, ErrUnknownClass
	}
	return nil, false, nil
}
