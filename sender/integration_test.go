// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

//go:build !js
// +build !js

package sender_test

import (
	"net"
	"testing"
	"time"

	"github.com/pion/cue-receiver/receiver"
	"github.com/pion/cue-receiver/sender"
	"github.com/pion/logging"
	"github.com/pion/transport/v3/vnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func port(t *testing.T, addr net.Addr) int {
	t.Helper()

	udpAddr, ok := addr.(*net.UDPAddr)
	require.True(t, ok)

	return udpAddr.Port
}

func TestSenderToReceiver_Loopback(t *testing.T) {
	recv, err := receiver.Start(0, 0)
	require.NoError(t, err)
	defer func() { assert.NoError(t, recv.Stop()) }()

	snd, err := sender.NewSender("127.0.0.1", port(t, recv.ImageAddr()), port(t, recv.AudioAddr()))
	require.NoError(t, err)
	defer func() { assert.NoError(t, snd.Close()) }()

	slide := append([]byte{0xFF, 0xD8, 0xFF, 0xDB}, make([]byte, 4096)...)
	require.NoError(t, snd.SendImage(slide))
	require.NoError(t, snd.SendCaption("二次関数のグラフ"))
	require.NoError(t, snd.SendAudioCue("/tmp/voice.wav"))

	assert.Eventually(t, func() bool {
		images, captions := recv.Pending()

		return images == 1 && captions == 2
	}, 2*time.Second, 5*time.Millisecond)

	frames := recv.DrainImages()
	require.Len(t, frames, 1)
	assert.Equal(t, slide, frames[0].Data)
	assert.Equal(t, "image/jpeg", frames[0].MIME)

	captions := recv.DrainCaptions()
	require.Len(t, captions, 2)
	assert.Equal(t, receiver.CaptionText, captions[0].Kind)
	assert.Equal(t, "二次関数のグラフ", captions[0].Text)
	assert.Equal(t, receiver.CaptionAudioCue, captions[1].Kind)
	assert.Equal(t, "/tmp/voice.wav", captions[1].AudioPath)
}

func TestSenderToReceiver_VirtualNetwork(t *testing.T) {
	loggerFactory := logging.NewDefaultLoggerFactory()
	router, err := vnet.NewRouter(&vnet.RouterConfig{
		CIDR:          "10.0.0.0/24",
		LoggerFactory: loggerFactory,
	})
	require.NoError(t, err)

	questNet, err := vnet.NewNet(&vnet.NetConfig{StaticIPs: []string{"10.0.0.100"}})
	require.NoError(t, err)
	require.NoError(t, router.AddNet(questNet))

	hostNet, err := vnet.NewNet(&vnet.NetConfig{StaticIPs: []string{"10.0.0.2"}})
	require.NoError(t, err)
	require.NoError(t, router.AddNet(hostNet))

	require.NoError(t, router.Start())
	defer func() { assert.NoError(t, router.Stop()) }()

	recv, err := receiver.Start(receiver.DefaultImagePort, receiver.DefaultAudioPort,
		receiver.SetNet(questNet),
		receiver.SetBindAddress("10.0.0.100"),
		receiver.SetLoggerFactory(loggerFactory),
	)
	require.NoError(t, err)
	defer func() { assert.NoError(t, recv.Stop()) }()

	snd, err := sender.NewSender("10.0.0.100", receiver.DefaultImagePort, receiver.DefaultAudioPort,
		sender.SetNet(hostNet),
		sender.SetLocalAddress("10.0.0.2:0"),
		sender.SetLoggerFactory(loggerFactory),
	)
	require.NoError(t, err)
	defer func() { assert.NoError(t, snd.Close()) }()

	require.NoError(t, snd.SendCaption("ようこそ"))

	assert.Eventually(t, func() bool {
		_, captions := recv.Pending()

		return captions == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "ようこそ", recv.DrainCaptions()[0].Text)
}
