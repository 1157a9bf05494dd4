/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps a single configuration message under the "_c:<pkg>"
key. The message is loaded from the "conf" section of the genesis file
with InitConfig and read back with Load.
*/
package gconf
