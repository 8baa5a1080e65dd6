/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chatserver/internal/apperr"
)

func Test_PairKey_Is_Order_Independent(t *testing.T) {
	req := require.New(t)
	req.Equal(PairKey("a", "b"), PairKey("b", "a"))
	req.Equal("a:b", PairKey("b", "a"))
}

func Test_CreateOneToOne_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")

	first, err := env.chats.CreateOneToOne(alice.UUID, bob.UUID)
	req.NoError(err)
	req.False(first.IsGroup)
	req.Len(first.Members, 2)

	// Asking again, from either side, hands back the same chat.
	second, err := env.chats.CreateOneToOne(alice.UUID, bob.UUID)
	req.NoError(err)
	req.Equal(first.UUID, second.UUID)

	third, err := env.chats.CreateOneToOne(bob.UUID, alice.UUID)
	req.NoError(err)
	req.Equal(first.UUID, third.UUID)
}

func Test_CreateOneToOne_Requires_Both_Users(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	alice := env.signup(t, "alice")

	_, err := env.chats.CreateOneToOne(alice.UUID, "no-such-user")
	req.ErrorIs(err, apperr.ErrNotFound)
}

func Test_CreateOneToOne_Rejects_Self(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	alice := env.signup(t, "alice")

	_, err := env.chats.CreateOneToOne(alice.UUID, alice.UUID)
	req.ErrorIs(err, apperr.ErrInvalidArgument)

	chats, err := env.chats.ListForUser(alice.UUID)
	req.NoError(err)
	req.Empty(chats)
}

func Test_CreateGroup_Includes_Creator(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	clara := env.signup(t, "clara")

	// The creator is not listed but must end up a member anyway.
	chat, err := env.chats.CreateGroup(alice.UUID, "book club", []string{bob.UUID, clara.UUID})
	req.NoError(err)
	req.True(chat.IsGroup)
	req.Equal("book club", chat.Name)
	req.Len(chat.Members, 3)
}

func Test_CreateGroup_Requires_Three_Members(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")

	_, err := env.chats.CreateGroup(alice.UUID, "too small", []string{bob.UUID})
	req.ErrorIs(err, apperr.ErrInvalidArgument)

	// Duplicated ids must not count twice.
	_, err = env.chats.CreateGroup(alice.UUID, "still too small", []string{bob.UUID, bob.UUID, alice.UUID})
	req.ErrorIs(err, apperr.ErrInvalidArgument)
}

func Test_CreateGroup_Rejects_Unknown_Members(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	clara := env.signup(t, "clara")

	// An id that resolves to nobody fails the whole request, even when
	// enough real members remain.
	_, err := env.chats.CreateGroup(alice.UUID, "ghost club", []string{bob.UUID, clara.UUID, "no-such-user"})
	req.ErrorIs(err, apperr.ErrNotFound)
	req.Contains(err.Error(), "no-such-user")

	chats, err := env.chats.ListForUser(alice.UUID)
	req.NoError(err)
	req.Empty(chats)
}

func Test_Membership_Changes_Return_Hydrated_Chat(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	clara := env.signup(t, "clara")
	dave := env.signup(t, "dave")

	chat, err := env.chats.CreateGroup(alice.UUID, "book club", []string{bob.UUID, clara.UUID})
	req.NoError(err)

	chat, err = env.chats.AddMember(chat.UUID, dave.UUID)
	req.NoError(err)
	req.Len(chat.Members, 4)

	chat, err = env.chats.Rename(chat.UUID, "film club")
	req.NoError(err)
	req.Equal("film club", chat.Name)

	chat, err = env.chats.RemoveMember(chat.UUID, dave.UUID)
	req.NoError(err)
	req.Len(chat.Members, 3)
}

func Test_RemoveMember_Never_Deletes_The_Chat(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	clara := env.signup(t, "clara")

	chat, err := env.chats.CreateGroup(alice.UUID, "book club", []string{bob.UUID, clara.UUID})
	req.NoError(err)

	for _, member := range []string{alice.UUID, bob.UUID, clara.UUID} {
		chat, err = env.chats.RemoveMember(chat.UUID, member)
		req.NoError(err)
	}
	req.Empty(chat.Members)

	// The empty chat is still there until an explicit delete.
	chats, err := env.chats.ListForUser(alice.UUID)
	req.NoError(err)
	req.Empty(chats)

	req.NoError(env.chats.Delete(chat.UUID))
	req.ErrorIs(env.chats.Delete(chat.UUID), apperr.ErrNotFound)
}

func Test_Mutations_On_Missing_Chat_Fail(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	alice := env.signup(t, "alice")

	_, err := env.chats.Rename("no-such-chat", "name")
	req.ErrorIs(err, apperr.ErrNotFound)

	_, err = env.chats.AddMember("no-such-chat", alice.UUID)
	req.ErrorIs(err, apperr.ErrNotFound)

	_, err = env.chats.RemoveMember("no-such-chat", alice.UUID)
	req.ErrorIs(err, apperr.ErrNotFound)
}
