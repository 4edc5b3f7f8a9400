package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

type tcpClient struct{}

func newTcpClient() Client { return &tcpClient{} }

func (c *tcpClient) Query(ctx context.Context, kind Kind) (bool, string, error) {
	timeout := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < timeout {
			timeout = d
		}
	}
	port, ok := detect(timeout)
	if !ok {
		return false, "", nil
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(residentHost, strconv.Itoa(port)))
	if err != nil {
		return true, "", err
	}
	defer conn.Close()
	// Unblock the read below when ctx ends during a NEXT wait.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(string(kind) + "\n"); err != nil {
		return true, "", err
	}
	if err := w.Flush(); err != nil {
		return true, "", err
	}

	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		if ctx.Err() != nil {
			return true, "", ctx.Err()
		}
		return true, "", err
	}
	body, _ := io.ReadAll(br)
	switch status {
	case statusOK:
		return true, string(body), nil
	case statusError:
		return true, "", errors.New(string(body))
	}
	return true, "", fmt.Errorf("unexpected response %q", status)
}
