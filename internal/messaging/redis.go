package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flap-service/internal/logger"
	"flap-service/internal/types"

	"github.com/redis/go-redis/v9"
)

type Callbacks struct {
	FlapCallback func() error // external flap trigger, equivalent to the "flap" console command
}

type RedisClient struct {
	client    *redis.Client
	callbacks Callbacks
	logger    *logger.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewRedisClient(host string, port int, l *logger.Logger) *RedisClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%d", host, port),
			DB:   0,
		}),
		logger: l,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetCallbacks installs the command callbacks. Must be called before
// StartListening.
func (r *RedisClient) SetCallbacks(callbacks Callbacks) {
	r.callbacks = callbacks
}

func (r *RedisClient) Connect() error {
	r.logger.Infof("Attempting to connect to Redis at %s", r.client.Options().Addr)

	if err := r.client.Ping(r.ctx).Err(); err != nil {
		r.logger.Infof("Redis connection failed: %v", err)
		return fmt.Errorf("Redis connection failed: %w", err)
	}
	r.logger.Infof("Successfully connected to Redis")

	return nil
}

// StartListening starts all Redis listeners after system initialization is complete
func (r *RedisClient) StartListening() error {
	r.logger.Infof("Starting Redis listeners")

	// Subscribe to the flap pub/sub channel for trigger events
	pubsub := r.client.Subscribe(r.ctx, "flap")
	r.logger.Infof("Subscribed to Redis channels: flap")

	// Start pub/sub listener
	r.wg.Add(1)
	go r.redisListener(pubsub)

	// Start list command listener for LPUSH commands
	r.wg.Add(1)
	go r.listCommandListener("flap:command", r.handleFlapCommand)

	return nil
}

func (r *RedisClient) listCommandListener(key string, handler func(string) error) {
	defer r.wg.Done()
	r.logger.Infof("Starting list command listener for %s", key)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Infof("Context cancelled, exiting %s listener", key)
			return
		default:
			// Use BRPOP with a short timeout to allow periodic context cancellation checks
			result, err := r.client.BRPop(r.ctx, 5*time.Second, key).Result()
			if err != nil {
				if err == redis.Nil {
					// Timeout elapsed, loop back to check context
					continue
				}
				if err == context.Canceled {
					r.logger.Infof("Context cancelled, exiting %s listener", key)
					return
				}
				r.logger.Infof("Error reading from %s list: %v", key, err)
				continue
			}

			select {
			case <-r.ctx.Done():
				r.logger.Infof("Context cancelled, exiting %s listener", key)
				return
			default:
				if len(result) >= 2 { // BRPOP returns [key, value]
					value := result[1]
					r.logger.Debugf("Received command from %s: %s", key, value)
					if err := handler(value); err != nil {
						r.logger.Warnf("Error handling %s command: %v", key, err)
					}
				}
			}
		}
	}
}

func (r *RedisClient) handleFlapCommand(value string) error {
	if r.callbacks.FlapCallback == nil {
		return nil
	}
	switch value {
	case "toggle":
		return r.callbacks.FlapCallback()
	default:
		r.logger.Infof("Invalid flap command value: %s", value)
		return fmt.Errorf("invalid flap command: %s", value)
	}
}

func (r *RedisClient) redisListener(pubsub *redis.PubSub) {
	defer r.wg.Done()
	defer pubsub.Close()

	r.logger.Infof("Starting Redis message listener")
	channel := pubsub.Channel()

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Infof("Context cancelled, exiting listener")
			return
		case msg, ok := <-channel:
			if !ok {
				r.logger.Infof("Redis channel closed unexpectedly")
				r.logger.Fatalf("Redis connection lost, exiting to allow systemd restart")
			}
			if msg == nil {
				r.logger.Infof("Received nil Redis message")
				r.logger.Fatalf("Redis connection lost, exiting to allow systemd restart")
			}

			r.logger.Debugf("Received Redis message: channel=%s payload=%s", msg.Channel, msg.Payload)

			switch msg.Channel {
			case "flap":
				if msg.Payload == "toggle" {
					if err := r.handleFlapCommand(msg.Payload); err != nil {
						r.logger.Infof("Failed to handle flap trigger: %v", err)
					}
				}
			}
		}
	}
}

// publishHashSet is a helper that atomically updates a hash field and publishes a notification
func (r *RedisClient) publishHashSet(hash, field string, value interface{}, channel, payload string) error {
	pipe := r.client.Pipeline()
	pipe.HSet(r.ctx, hash, field, value)
	pipe.Publish(r.ctx, channel, payload)
	_, err := pipe.Exec(r.ctx)
	return err
}

// PublishFlapState publishes the flap state and last commanded duty to the
// flap hash, notifying subscribers on the flap channel.
func (r *RedisClient) PublishFlapState(state types.FlapState, duty float64) error {
	r.logger.Infof("Publishing flap state: %s", state)
	timestamp := time.Now().Format(time.RFC3339)

	// Atomically set state, duty and timestamp fields
	pipe := r.client.Pipeline()
	pipe.HSet(r.ctx, "flap", "state", string(state))
	pipe.HSet(r.ctx, "flap", "duty", fmt.Sprintf("%.3f", duty))
	pipe.HSet(r.ctx, "flap", "state:timestamp", timestamp)
	pipe.Publish(r.ctx, "flap", "state")
	_, err := pipe.Exec(r.ctx)

	if err != nil {
		r.logger.Warnf("Failed to publish flap state: %v", err)
		return err
	}
	r.logger.Debugf("Successfully published flap state with timestamp: %s", timestamp)
	return nil
}

// GetFlapState reads the last published flap state from Redis.
func (r *RedisClient) GetFlapState() (types.FlapState, error) {
	stateStr, err := r.client.HGet(r.ctx, "flap", "state").Result()
	if err == redis.Nil {
		return types.StateClosed, nil
	}
	if err != nil {
		return types.StateClosed, fmt.Errorf("failed to get flap state: %w", err)
	}
	return types.FlapState(stateStr), nil
}

// PublishButtonEvent publishes a button press to the flap hash and the
// "buttons" channel for immediate event handling.
func (r *RedisClient) PublishButtonEvent(button string) error {
	r.logger.Debugf("Publishing button event: %s", button)
	field := fmt.Sprintf("button:%s", button)
	if err := r.publishHashSet("flap", field, time.Now().Format(time.RFC3339), "buttons", fmt.Sprintf("%s:pressed", button)); err != nil {
		r.logger.Warnf("Failed to publish button event: %v", err)
		return err
	}
	r.logger.Debugf("Successfully published button event")
	return nil
}

func (r *RedisClient) Close() error {
	r.logger.Infof("Closing Redis client")
	r.cancel()

	// Wait for all goroutines to finish with a timeout
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Infof("All Redis goroutines finished")
	case <-time.After(5 * time.Second):
		r.logger.Infof("Timeout waiting for Redis goroutines to finish")
	}

	return r.client.Close()
}
